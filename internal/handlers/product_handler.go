package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"stockmana/internal/apperr"
	"stockmana/internal/logging"
	"stockmana/internal/models"
	"stockmana/internal/services"
)

const maxUploadSize = 10 << 20

var imageFields = []string{"image", "imageUrl"}

type ProductHandler struct {
	products *services.ProductService
	log      logging.Logger
}

func NewProductHandler(products *services.ProductService, log logging.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

// parseProductForm reads the product fields and the optional image from a
// multipart or urlencoded body. The returned closer must be called once the
// image has been consumed.
func parseProductForm(r *http.Request) (models.ProductInput, *services.ImageUpload, func(), error) {
	noop := func() {}

	err := r.ParseMultipartForm(maxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return models.ProductInput{}, nil, noop, apperr.Validation("Invalid form data")
	}

	in := models.ProductInput{
		Name:        r.FormValue("name"),
		SKU:         r.FormValue("sku"),
		Category:    r.FormValue("category"),
		Quantity:    r.FormValue("quantity"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}

	if r.MultipartForm == nil {
		return in, nil, noop, nil
	}

	var (
		file   multipart.File
		header *multipart.FileHeader
	)
	for _, field := range imageFields {
		file, header, err = r.FormFile(field)
		if err == nil {
			break
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return in, nil, noop, apperr.Validation("Invalid image upload")
		}
	}
	if file == nil {
		return in, nil, noop, nil
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return in, nil, noop, apperr.Validation("Only image files can be uploaded")
	}

	img := &services.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}
	return in, img, func() { file.Close() }, nil
}

// CreateProduct godoc
// @Tags Products
// @Summary Create a product
// @Security CookieAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param sku formData string false "SKU"
// @Param category formData string true "Category"
// @Param quantity formData string true "Quantity"
// @Param price formData string true "Price"
// @Param description formData string true "Description"
// @Param image formData file false "Product image"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/products/ [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	in, img, done, err := parseProductForm(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer done()

	p, err := h.products.Create(r.Context(), u.ID, in, img)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Product successfully added..", p)
}

// ListProducts godoc
// @Tags Products
// @Summary List the caller's products, newest first
// @Security CookieAuth
// @Produce json
// @Success 200 {array} models.Product
// @Failure 401 {object} map[string]interface{}
// @Router /api/products/ [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	products, err := h.products.List(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "all product successfully loaded", products)
}

// GetProduct godoc
// @Tags Products
// @Summary Get a product
// @Security CookieAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	p, err := h.products.Get(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product successfully fetched", p)
}

// UpdateProduct godoc
// @Tags Products
// @Summary Update a product
// @Security CookieAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Param image formData file false "Replacement image"
// @Success 200 {object} models.Product
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/products/{id} [patch]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	in, img, done, err := parseProductForm(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer done()

	p, err := h.products.Update(r.Context(), u.ID, chi.URLParam(r, "id"), in, img)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product successfully updated..", p)
}

// DeleteProduct godoc
// @Tags Products
// @Summary Delete a product
// @Security CookieAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.products.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product has been removed", nil)
}

// DeleteProducts godoc
// @Tags Products
// @Summary Delete several products at once
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param body body models.DeleteProductsRequest true "Product IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/products/ [delete]
func (h *ProductHandler) DeleteProducts(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req models.DeleteProductsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	n, err := h.products.DeleteMany(r.Context(), u.ID, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Your selected products has been removed", map[string]int64{"deleted": n})
}
