package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CategoryCount productos agrupados por categoría.
type CategoryCount struct {
	Category string
	Count    int64
}

// MovementTypeCount movimientos agrupados por tipo (IN/OUT) en un período.
type MovementTypeCount struct {
	Type  string
	Count int64
}

// ReportRepository consultas de solo lectura para el dashboard.
// Sin estado derivado: todo se recalcula por petición sobre catálogo + libro.
type ReportRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	MovementStats(ctx context.Context, since time.Time) ([]MovementTypeCount, error)
	RecentMovements(ctx context.Context, limit int) ([]*entity.Movement, error)
}
