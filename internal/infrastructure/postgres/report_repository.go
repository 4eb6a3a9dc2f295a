package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura para el dashboard.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// CountProducts total de productos del catálogo.
func (r *ReportRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// CountLowStock productos con cantidad estrictamente menor al umbral.
func (r *ReportRepo) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE quantity < $1`, threshold).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return count, nil
}

// TotalInventoryValue suma de precio * cantidad de todo el catálogo.
func (r *ReportRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(price * quantity), 0) FROM products`).Scan(&value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total inventory value: %w", err)
	}
	return value, nil
}

// CountByCategory productos agrupados por categoría, de mayor a menor.
func (r *ReportRepo) CountByCategory(ctx context.Context) ([]repository.CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM products GROUP BY category ORDER BY COUNT(*) DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()
	var list []repository.CategoryCount
	for rows.Next() {
		var c repository.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// MovementStats movimientos agrupados por tipo desde una fecha.
func (r *ReportRepo) MovementStats(ctx context.Context, since time.Time) ([]repository.MovementTypeCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT type, COUNT(*) FROM inventory_movements WHERE created_at >= $1 GROUP BY type ORDER BY type ASC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("movement stats: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementTypeCount
	for rows.Next() {
		var s repository.MovementTypeCount
		if err := rows.Scan(&s.Type, &s.Count); err != nil {
			return nil, fmt.Errorf("scan movement stat: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// RecentMovements últimos movimientos del libro, del más reciente al más antiguo.
func (r *ReportRepo) RecentMovements(ctx context.Context, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity,
			&m.UserID, &m.UserName, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
