package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/reports"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// fakeReportRepo devuelve agregados fijos y registra el umbral recibido.
type fakeReportRepo struct {
	thresholdSeen int64
	failTotals    bool
}

func (r *fakeReportRepo) CountProducts(context.Context) (int64, error) {
	if r.failTotals {
		return 0, errors.New("db caída")
	}
	return 12, nil
}

func (r *fakeReportRepo) CountLowStock(_ context.Context, threshold int64) (int64, error) {
	r.thresholdSeen = threshold
	return 3, nil
}

func (r *fakeReportRepo) TotalInventoryValue(context.Context) (decimal.Decimal, error) {
	return decimal.NewFromFloat(1234.567), nil
}

func (r *fakeReportRepo) CountByCategory(context.Context) ([]repository.CategoryCount, error) {
	return []repository.CategoryCount{
		{Category: "Granos", Count: 8},
		{Category: "Condimentos", Count: 4},
	}, nil
}

func (r *fakeReportRepo) MovementStats(context.Context, time.Time) ([]repository.MovementTypeCount, error) {
	return []repository.MovementTypeCount{
		{Type: entity.MovementTypeIN, Count: 20},
		{Type: entity.MovementTypeOUT, Count: 15},
	}, nil
}

func (r *fakeReportRepo) RecentMovements(_ context.Context, limit int) ([]*entity.Movement, error) {
	movements := make([]*entity.Movement, 0, limit)
	movements = append(movements, &entity.Movement{
		ID: "m1", ProductID: "p1", ProductName: "Arroz 1kg",
		Type: entity.MovementTypeOUT, Quantity: 2,
		UserID: "u1", UserName: "Ana",
	})
	return movements, nil
}

func TestDashboard_GetSummary(t *testing.T) {
	repo := &fakeReportRepo{}
	uc := reports.NewDashboardUseCase(repo, 5)

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), out.TotalProducts)
	assert.Equal(t, int64(3), out.LowStockCount)
	assert.Equal(t, int64(5), repo.thresholdSeen, "el umbral configurado llega al repositorio")
	assert.Equal(t, "1234.57", out.TotalValue.StringFixed(2), "el valor total se redondea a dos decimales")

	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Granos", out.Categories[0].Category)

	require.Len(t, out.MovementStats, 2)
	assert.Equal(t, entity.MovementTypeIN, out.MovementStats[0].Type)

	require.Len(t, out.RecentMovements, 1)
	assert.Equal(t, "Arroz 1kg", out.RecentMovements[0].ProductName)
}

func TestDashboard_ErrorDePersistencia(t *testing.T) {
	uc := reports.NewDashboardUseCase(&fakeReportRepo{failTotals: true}, 5)

	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard")
}
