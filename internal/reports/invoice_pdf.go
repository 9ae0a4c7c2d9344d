// Package reports renders platform invoices to PDF for the admin
// back-office.
package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/garagedesk/garagedesk/internal/models"
)

var (
	colorPrimary   = [3]int{23, 37, 84}    // Navy
	colorMuted     = [3]int{120, 130, 140} // Muted text
	colorTableHead = [3]int{23, 37, 84}
	colorTableAlt  = [3]int{241, 245, 249}
)

// InvoicePDF renders a subscription payment invoice. Bank details go
// in the footer so a workshop can reconcile the payment reference.
func InvoicePDF(inv models.PlatformInvoice, workshopName string, bank models.BankDetails) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	// Header
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 12, "GarageDesk")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Subscription Invoice")
	pdf.Ln(12)

	pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice %s", inv.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", inv.Date))
	pdf.Ln(6)
	if workshopName != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Billed to: %s", workshopName))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Line table
	pdf.SetFillColor(colorTableHead[0], colorTableHead[1], colorTableHead[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 8, "Plan", "", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Term", "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Status", "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Amount", "", 1, "R", true, 0, "")

	pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(90, 8, inv.PlanName, "", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, string(inv.Duration), "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, inv.Status, "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, inv.Amount, "", 1, "R", true, 0, "")
	pdf.Ln(10)

	// Payment details
	if bank.AccountNumber != "" {
		pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "Payment Details")
		pdf.Ln(8)

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range []string{
			fmt.Sprintf("Bank: %s", bank.BankName),
			fmt.Sprintf("Account: %s (%s)", bank.AccountNumber, bank.AccountName),
		} {
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		if bank.BranchCode != "" {
			pdf.Cell(0, 6, fmt.Sprintf("Branch code: %s", bank.BranchCode))
			pdf.Ln(6)
		}
		if bank.Reference != "" {
			pdf.Cell(0, 6, fmt.Sprintf("Reference: %s", bank.Reference))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
