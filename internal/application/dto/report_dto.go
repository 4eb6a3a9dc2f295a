package dto

import "github.com/shopspring/decimal"

// CategoryCountDTO productos por categoría para el dashboard.
type CategoryCountDTO struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// MovementStatDTO movimientos por tipo en la ventana de 30 días.
type MovementStatDTO struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// DashboardDTO resumen del inventario: totales de catálogo, valor total,
// stock bajo, distribución por categoría, actividad reciente del libro.
type DashboardDTO struct {
	TotalProducts   int64              `json:"total_products"`
	LowStockCount   int64              `json:"low_stock_count"`
	TotalValue      decimal.Decimal    `json:"total_value"`
	RecentMovements []MovementResponse `json:"recent_movements"`
	Categories      []CategoryCountDTO `json:"categories"`
	MovementStats   []MovementStatDTO  `json:"movement_stats"`
}
