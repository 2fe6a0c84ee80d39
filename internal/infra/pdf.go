package infra

// pdf.go — Cost report generation using go-pdf/fpdf.
// Renders an A4 landscape table with one row per active product:
// base cost, profit, subtotal, each applied cost type, and final price.
// The output file is saved to storagePath/reporte_costos_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"saborpos/internal/dto"

	"github.com/go-pdf/fpdf"
)

// ReporteCostosPDF renders cost reports to disk. Implements the
// service.GeneradorPDF contract.
type ReporteCostosPDF struct {
	storagePath string
}

func NewReporteCostosPDF(storagePath string) *ReporteCostosPDF {
	return &ReporteCostosPDF{storagePath: storagePath}
}

func (g *ReporteCostosPDF) GenerarReporteCostos(desgloses []dto.DesgloseResponse) (string, error) {
	if err := os.MkdirAll(g.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_costos_%s.pdf", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(g.storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "SaborPOS — Reporte de Costos", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	colSKU := contentW * 0.10
	colNombre := contentW * 0.26
	colNum := contentW * 0.16

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(colSKU, 6, "SKU", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colNombre, 6, "Producto", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colNum, 6, "Costo base", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colNum, 6, "Ganancia", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colNum, 6, "Costos aplicados", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colNum, 6, "Precio final", "1", 1, "R", true, 0, "")
	}
	header()

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range desgloses {
		// New page keeps the table header
		if pdf.GetY() > 180 {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 8)
		}

		nombre := d.Nombre
		if len(nombre) > 40 {
			nombre = nombre[:39] + "…"
		}
		totalCostos := ""
		{
			suma := d.PrecioFinal.Sub(d.Subtotal)
			totalCostos = "$" + suma.StringFixed(2)
		}

		pdf.CellFormat(colSKU, 6, d.SKU, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colNombre, 6, nombre, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colNum, 6, "$"+d.CostoBase.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 6, "$"+d.Ganancia.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 6, totalCostos, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 6, "$"+d.PrecioFinal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Total de productos: %d", len(desgloses)), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
