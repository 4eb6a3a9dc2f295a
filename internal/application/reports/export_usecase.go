package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockReportGenerator genera la versión PDF del reporte de inventario.
// Lo implementa infrastructure/pdf; el uso de interfaz evita acoplar el caso de uso a Maroto.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error)
}

// ExportUseCase exporta el catálogo completo: CSV (una fila por producto) o PDF.
type ExportUseCase struct {
	productRepo repository.ProductRepository
	pdfGen      StockReportGenerator
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(productRepo repository.ProductRepository, pdfGen StockReportGenerator) *ExportUseCase {
	return &ExportUseCase{productRepo: productRepo, pdfGen: pdfGen}
}

// BuildCSV devuelve el catálogo completo como CSV con cabecera.
// Columnas: ID, Nombre, Categoría, Precio, Cantidad, Vencimiento, Creado.
func (uc *ExportUseCase) BuildCSV() ([]byte, error) {
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Nombre", "Categoría", "Precio", "Cantidad", "Vencimiento", "Creado"}); err != nil {
		return nil, fmt.Errorf("export csv: cabecera: %w", err)
	}
	for _, p := range products {
		expires := ""
		if p.ExpiresAt != nil {
			expires = p.ExpiresAt.Format("2006-01-02")
		}
		record := []string{
			p.ID,
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			fmt.Sprintf("%d", p.Quantity),
			expires,
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export csv: fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPDF devuelve el reporte de inventario como PDF A4.
func (uc *ExportUseCase) BuildPDF(ctx context.Context) ([]byte, error) {
	products, err := uc.productRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateStockReport(ctx, products, time.Now())
}
