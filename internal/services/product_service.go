package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"stockmana/internal/apperr"
	"stockmana/internal/logging"
	"stockmana/internal/models"
	"stockmana/internal/repository"
)

const (
	msgProductInfo      = "Please fill all product information..."
	msgUploadFailed     = "Failure to upload the product image"
	msgNotYourProduct   = "You are not authorized to do this activity!"
	msgNotYourSelection = "One or more of the specified product are not belong to you. cannot delete"
)

type ProductService struct {
	store  repository.Store
	images ImageStore
	log    logging.Logger
	v      *validator.Validate
}

func NewProductService(store repository.Store, images ImageStore, log logging.Logger) *ProductService {
	return &ProductService{store: store, images: images, log: log, v: newValidator()}
}

func trimInput(in *models.ProductInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.Price = strings.TrimSpace(in.Price)
	in.Description = strings.TrimSpace(in.Description)
}

func (s *ProductService) upload(ctx context.Context, userID string, img *ImageUpload) (models.ProductImage, error) {
	if img == nil {
		return models.ProductImage{}, nil
	}
	out, err := s.images.Upload(ctx, *img)
	if err != nil {
		s.log.Error(ctx, "product image upload failed", "user_id", userID, "file", img.FileName, "error", err)
		return models.ProductImage{}, apperr.Dependency(msgUploadFailed, err)
	}
	return out, nil
}

// Create stores a new product. When img is set it is uploaded first and
// nothing is stored if the upload fails.
func (s *ProductService) Create(ctx context.Context, userID string, in models.ProductInput, img *ImageUpload) (*models.Product, error) {
	trimInput(&in)
	if err := validateRequest(s.v, in, msgProductInfo); err != nil {
		return nil, err
	}
	if in.SKU == "" {
		in.SKU = models.DefaultSKU
	}

	image, err := s.upload(ctx, userID, img)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		SKU:         in.SKU,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Description: in.Description,
		Image:       image,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, apperr.Internal("failed to create product", err)
	}
	return p, nil
}

// List returns the caller's products, newest first.
func (s *ProductService) List(ctx context.Context, userID string) ([]models.Product, error) {
	products, err := s.store.Products().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *ProductService) owned(ctx context.Context, userID, id, notFoundMsg, foreignMsg string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(notFoundMsg)
	}
	p, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound(notFoundMsg)
		}
		return nil, apperr.Internal("failed to load product", err)
	}
	if p.UserID != userID {
		return nil, apperr.Unauthorized(foreignMsg)
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, userID, id string) (*models.Product, error) {
	return s.owned(ctx, userID, id, "Product Not Found!", "You are not authorized to see the details of this product!")
}

// Update overwrites the fields that are set in in. The image is replaced
// only when a new one is sent. SKU never changes after creation.
func (s *ProductService) Update(ctx context.Context, userID, id string, in models.ProductInput, img *ImageUpload) (*models.Product, error) {
	p, err := s.owned(ctx, userID, id, "No product found!", msgNotYourProduct)
	if err != nil {
		return nil, err
	}

	trimInput(&in)
	mergeField(&p.Name, in.Name)
	mergeField(&p.Category, in.Category)
	mergeField(&p.Quantity, in.Quantity)
	mergeField(&p.Price, in.Price)
	mergeField(&p.Description, in.Description)

	if img != nil {
		image, err := s.upload(ctx, userID, img)
		if err != nil {
			return nil, err
		}
		p.Image = image
	}

	if err := s.store.Products().Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("No product found!")
		}
		return nil, apperr.Internal("failed to update product", err)
	}
	return p, nil
}

func mergeField(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (s *ProductService) Delete(ctx context.Context, userID, id string) error {
	p, err := s.owned(ctx, userID, id, "No Product found to delete", msgNotYourProduct)
	if err != nil {
		return err
	}
	if err := s.store.Products().Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperr.NotFound("No Product found to delete")
		}
		return apperr.Internal("failed to delete product", err)
	}
	return nil
}

// DeleteMany removes every listed product or none of them. A single id that
// is unknown or owned by someone else rejects the whole request.
func (s *ProductService) DeleteMany(ctx context.Context, userID string, req models.DeleteProductsRequest) (int64, error) {
	if err := validateRequest(s.v, req, "Please select the products to delete"); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(req.ProductIDs))
	ids := make([]string, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if _, err := uuid.Parse(id); err != nil {
			return 0, apperr.Unauthorized(msgNotYourSelection)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var deleted int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		products := tx.Products()
		n, err := products.CountOwned(ctx, userID, ids)
		if err != nil {
			return err
		}
		if n != len(ids) {
			return apperr.Unauthorized(msgNotYourSelection)
		}
		deleted, err = products.DeleteMany(ctx, userID, ids)
		return err
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			return 0, err
		}
		return 0, apperr.Internal("failed to delete products", err)
	}
	return deleted, nil
}
