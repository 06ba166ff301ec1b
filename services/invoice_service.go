package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

// InvoiceRenderer membuat invoice PDF dari snapshot order (bukan data customer terkini)
type InvoiceRenderer struct {
	StoreName string
}

func NewInvoiceRenderer(storeName string) *InvoiceRenderer {
	return &InvoiceRenderer{StoreName: storeName}
}

func (r *InvoiceRenderer) Render(w io.Writer, order *models.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+order.OrderNumber, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(r.StoreName), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Invoice "+order.OrderNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Tanggal: "+order.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+order.Status, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Penerima", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, tr(order.CustomerName)+" / "+order.CustomerWhatsapp, "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 6, tr(order.CustomerAddress), "", "L", false)
	shipping := "Pengiriman: " + order.ShippingMethod
	if order.DeliveryDay != nil {
		shipping += " (" + *order.DeliveryDay + ")"
	}
	pdf.CellFormat(0, 6, shipping+"   Pembayaran: "+order.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{80, 25, 15, 35, 35}
	headers := []string{"Produk", "Varian", "Qty", "Harga", "Total"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.OrderItems {
		pdf.CellFormat(widths[0], 7, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(item.ProductVariantWeight), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, utils.FormatCurrencyIDR(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, utils.FormatCurrencyIDR(item.TotalPrice), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	labelWidth := widths[0] + widths[1] + widths[2] + widths[3]
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal", utils.FormatCurrencyIDR(order.Subtotal)},
		{"Ongkir", utils.FormatCurrencyIDR(order.ShippingCost)},
		{"Total", utils.FormatCurrencyIDR(order.TotalAmount)},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(labelWidth, 7, row.label, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, row.value, "1", 1, "R", false, 0, "")
	}

	if order.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, tr("Catatan: "+order.Notes), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice %s: %w", order.OrderNumber, err)
	}
	return nil
}
