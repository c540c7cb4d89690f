package reports

import (
	"bytes"
	"fmt"

	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// CashCutPDF renders one reconciled cut as a printable A4 summary.
func CashCutPDF(cut *models.CashCut) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Core fonts are cp1252, accented labels go through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Abarrotes F1 - Corte de Caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Corte #%d - %s", cut.ID,
		timeutil.ToLocal(cut.CreatedAt).Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Income
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Ingresos", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	incomeRows := []struct {
		label  string
		amount float64
	}{
		{"Ventas", cut.Sales},
		{"Fiesta", cut.PartyIncome},
		{"Recargas", cut.Recharges},
		{"Estancia", cut.StayIncome},
		{"Abonos de clientes", cut.ReceivablesPayments},
	}
	for _, row := range incomeRows {
		pdf.CellFormat(130, 7, row.label, "LB", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, fmt.Sprintf("$%.2f", row.amount), "RB", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 7, "Total de ingresos", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("$%.2f", cut.TotalIncome), "RB", 1, "R", false, 0, "")
	pdf.Ln(5)

	// Expenses
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Egresos", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(130, 7, "Consumo personal", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("$%.2f", cut.PersonalConsumption), "RB", 1, "R", false, 0, "")
	pdf.CellFormat(130, 7, "Gastos generales", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("$%.2f", cut.GeneralExpenses), "RB", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 7, "Total de egresos", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("$%.2f", cut.TotalExpenses), "RB", 1, "R", false, 0, "")
	pdf.Ln(5)

	// Reconciliation
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, tr("Conciliación"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, fmt.Sprintf("Efectivo calculado: $%.2f", cut.ComputedCash), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Efectivo entregado: $%.2f", cut.DeliveredCash), "1", 1, "C", false, 0, "")

	// Variance, highlighted when the drawer did not square
	if cut.Balanced() {
		pdf.SetFillColor(200, 255, 200)
	} else {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 10, fmt.Sprintf("Diferencia: $%.2f", cut.Variance), "1", 1, "C", true, 0, "")

	if cut.Note != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(190, 6, tr("Nota: "+cut.Note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render cash cut pdf: %w", err)
	}
	return buf.Bytes(), nil
}
