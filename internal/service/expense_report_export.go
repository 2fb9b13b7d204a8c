package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/jung-kurt/gofpdf"
)

// GenerateExpenseReportPDF renders a paginated PDF of expenses within
// [from, to] inclusive of the whole end day, with per-item lines and a grand
// total. Dates are YYYY-MM-DD; blank values default to the last 30 days.
func (s *BackofficeService) GenerateExpenseReportPDF(ctx context.Context, fromDate, toDate string, loc *time.Location) ([]byte, string, error) {
	start, end, err := resolveReportWindow(fromDate, toDate, loc)
	if err != nil {
		return nil, "", err
	}

	expenses, err := s.expenseRepo.ListByDateRange(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch report expenses: %w", err)
	}

	grandTotal := 0.0
	items := make([]core.Expense, len(expenses))
	for i, expense := range expenses {
		grandTotal += expense.Amount
		items[i] = *expense
	}

	report := &core.ExpenseReport{
		Title:       "Expense Report",
		DateLabel:   fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02")),
		StartAt:     start,
		EndAt:       end,
		GeneratedAt: time.Now().In(loc),
		GrandTotal:  grandTotal,
		Expenses:    items,
	}

	pdfBytes, err := renderExpenseReportPDF(report, loc)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("expenses-%s.pdf", end.AddDate(0, 0, -1).Format("2006-01-02"))
	return pdfBytes, filename, nil
}

// resolveReportWindow parses the report range. The returned end is exclusive
// (start of the day after toDate).
func resolveReportWindow(fromDate, toDate string, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)

	if strings.TrimSpace(fromDate) != "" {
		parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(fromDate), loc)
		if err != nil {
			return time.Time{}, time.Time{}, core.Validationf("invalid from date, expected YYYY-MM-DD")
		}
		start = parsed
	}

	if strings.TrimSpace(toDate) != "" {
		parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(toDate), loc)
		if err != nil {
			return time.Time{}, time.Time{}, core.Validationf("invalid to date, expected YYYY-MM-DD")
		}
		end = parsed.AddDate(0, 0, 1)
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, core.Validationf("report range end must be after start")
	}

	return start, end, nil
}

func renderExpenseReportPDF(report *core.ExpenseReport, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, "Duka POS", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, report.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", report.DateLabel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated At: %s", core.FormatDateTime(report.GeneratedAt, loc)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Total Expenses: %s", core.FormatMoney(report.GrandTotal)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Entries: %d", len(report.Expenses)), "1", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Expense Detail", "", 1, "L", false, 0, "")

	if len(report.Expenses) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, "No expenses found for this report range.", "", 1, "L", false, 0, "")
	} else {
		for i, expense := range report.Expenses {
			ensurePageSpace(pdf, 25)

			pdf.SetFont("Arial", "B", 10)
			headerLine := fmt.Sprintf(
				"%d) %s | %s | %s",
				i+1,
				safeReportValue(expense.Title),
				safeReportValue(expense.Category),
				core.FormatDate(expense.Date, loc),
			)
			pdf.MultiCell(0, 6, headerLine, "", "L", false)

			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("Amount: %s", core.FormatMoney(expense.Amount)), "", "L", false)
			if strings.TrimSpace(expense.Description) != "" {
				pdf.MultiCell(0, 5, fmt.Sprintf("Notes: %s", expense.Description), "", "L", false)
			}

			pdf.CellFormat(0, 1, "", "B", 1, "L", false, 0, "")
			pdf.Ln(1)
		}

		ensurePageSpace(pdf, 12)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, fmt.Sprintf("Grand Total: %s", core.FormatMoney(report.GrandTotal)), "T", 1, "R", false, 0, "")
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return buffer.Bytes(), nil
}

func ensurePageSpace(pdf *gofpdf.Fpdf, minSpace float64) {
	_, pageHeight := pdf.GetPageSize()
	leftMargin, _, rightMargin, bottomMargin := pdf.GetMargins()
	usableBottom := pageHeight - bottomMargin
	if pdf.GetY()+minSpace > usableBottom {
		pdf.AddPage()
		pdf.SetX(leftMargin)
		pdf.SetRightMargin(rightMargin)
	}
}

func safeReportValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
