package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DefaultSKU = "SKU-product"

// ProductImage describes an uploaded product picture. The zero value means
// the product has no image.
type ProductImage struct {
	FileName string `json:"file_name,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	FileType string `json:"file_type,omitempty"`
	FileSize string `json:"file_size,omitempty"`
}

func (i ProductImage) IsZero() bool {
	return i == ProductImage{}
}

// Value stores the image as jsonb.
func (i ProductImage) Value() (driver.Value, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (i *ProductImage) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = ProductImage{}
		return nil
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("unsupported image column type %T", src)
	}
}

type Product struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	SKU         string       `json:"sku"`
	Category    string       `json:"category"`
	Quantity    string       `json:"quantity"`
	Price       string       `json:"price"`
	Description string       `json:"description"`
	Image       ProductImage `json:"image"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProductInput carries the form fields of a create or update request.
type ProductInput struct {
	Name        string `validate:"required"`
	SKU         string
	Category    string `validate:"required"`
	Quantity    string `validate:"required"`
	Price       string `validate:"required"`
	Description string `validate:"required"`
}

type DeleteProductsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}
