package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity solo cambia por el libro de movimientos o por una corrección directa de catálogo;
// el invariante Quantity >= 0 lo protege el caso de uso del libro.
type Product struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal // precio unitario, no negativo
	Quantity  int64           // existencias actuales, nunca negativo
	ExpiresAt *time.Time      // fecha de vencimiento opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}
