package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// ExpiresAt es opcional, formato "2006-01-02".
type CreateProductRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Category  string          `json:"category" validate:"required,min=1,max=100"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity" validate:"min=0"`
	ExpiresAt string          `json:"expires_at,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Quantity aquí es la vía de corrección directa de catálogo; los ajustes normales
// de existencias van por el libro de movimientos.
type UpdateProductRequest struct {
	Name      *string          `json:"name,omitempty"`
	Category  *string          `json:"category,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  *int64           `json:"quantity,omitempty"`
	ExpiresAt *string          `json:"expires_at,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	ExpiresAt string          `json:"expires_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
