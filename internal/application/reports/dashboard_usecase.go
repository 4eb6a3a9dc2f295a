// Package reports contiene los casos de uso de solo lectura: dashboard del
// inventario y exportación del catálogo.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

const (
	dashboardRecentMovements = 10                  // movimientos recientes en el widget
	movementStatsWindow      = 30 * 24 * time.Hour // ventana de estadísticas por tipo
)

// DashboardUseCase genera el resumen del inventario.
//
// Fuente de datos: ReportRepository (consultas read-only). Sin almacenamiento
// derivado: cada petición recalcula todo desde catálogo + libro.
type DashboardUseCase struct {
	reportRepo        repository.ReportRepository
	lowStockThreshold int64
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, lowStockThreshold int64) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, lowStockThreshold: lowStockThreshold}
}

// GetSummary construye el DashboardDTO.
//
// Tres llamadas en paralelo:
//  1. totales de catálogo (conteo, stock bajo, valor total)
//  2. agrupaciones (por categoría, movimientos por tipo en 30 días)
//  3. movimientos recientes (top 10 con nombres desnormalizados)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	type totalsResult struct {
		products int64
		lowStock int64
		value    decimal.Decimal
		err      error
	}
	type groupsResult struct {
		categories []repository.CategoryCount
		stats      []repository.MovementTypeCount
		err        error
	}
	type recentResult struct {
		movements []*entity.Movement
		err       error
	}

	totalsCh := make(chan totalsResult, 1)
	groupsCh := make(chan groupsResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		var r totalsResult
		if r.products, r.err = uc.reportRepo.CountProducts(ctx); r.err != nil {
			totalsCh <- r
			return
		}
		if r.lowStock, r.err = uc.reportRepo.CountLowStock(ctx, uc.lowStockThreshold); r.err != nil {
			totalsCh <- r
			return
		}
		r.value, r.err = uc.reportRepo.TotalInventoryValue(ctx)
		totalsCh <- r
	}()
	go func() {
		var r groupsResult
		if r.categories, r.err = uc.reportRepo.CountByCategory(ctx); r.err != nil {
			groupsCh <- r
			return
		}
		since := time.Now().Add(-movementStatsWindow)
		r.stats, r.err = uc.reportRepo.MovementStats(ctx, since)
		groupsCh <- r
	}()
	go func() {
		movements, err := uc.reportRepo.RecentMovements(ctx, dashboardRecentMovements)
		recentCh <- recentResult{movements, err}
	}()

	totals := <-totalsCh
	groups := <-groupsCh
	recent := <-recentCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de catálogo: %w", totals.err)
	}
	if groups.err != nil {
		return nil, fmt.Errorf("dashboard: agrupaciones: %w", groups.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}

	categories := make([]dto.CategoryCountDTO, 0, len(groups.categories))
	for _, c := range groups.categories {
		categories = append(categories, dto.CategoryCountDTO{Category: c.Category, Count: c.Count})
	}
	stats := make([]dto.MovementStatDTO, 0, len(groups.stats))
	for _, s := range groups.stats {
		stats = append(stats, dto.MovementStatDTO{Type: s.Type, Count: s.Count})
	}
	movements := make([]dto.MovementResponse, 0, len(recent.movements))
	for _, m := range recent.movements {
		movements = append(movements, *ledger.ToMovementResponse(m))
	}

	return &dto.DashboardDTO{
		TotalProducts:   totals.products,
		LowStockCount:   totals.lowStock,
		TotalValue:      totals.value.Round(2),
		RecentMovements: movements,
		Categories:      categories,
		MovementStats:   stats,
	}, nil
}
