package infra

// pdf.go: order receipt rendered with go-pdf/fpdf on receipt-sized paper:
// store header, order code and date, line table, total, payment method and
// delivery data when present.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tresetapas/internal/model"

	"github.com/go-pdf/fpdf"
)

var metodoPagoLabel = map[string]string{
	model.MetodoEfectivo:      "Efectivo",
	model.MetodoNequi:         "Nequi",
	model.MetodoDaviplata:     "Daviplata",
	model.MetodoTarjeta:       "Tarjeta",
	model.MetodoContraentrega: "Pago Contraentrega",
}

// MetodoPagoLabel returns the display name of a payment method.
func MetodoPagoLabel(metodo string) string {
	if l, ok := metodoPagoLabel[metodo]; ok {
		return l
	}
	return metodo
}

// RenderReciboPDF writes the receipt of pedido to w.
func RenderReciboPDF(w io.Writer, pedido *model.Pedido, tienda string) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: 140},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("") // UTF-8 → cp1252 for core fonts
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(tienda), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Recibo de pedido"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Pedido "+pedido.Codigo, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pedido.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Lines ────────────────────────────────────────────────────────────────
	col1, col2, col3 := contentW*0.55, contentW*0.15, contentW*0.30
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for i := range pedido.Items {
		it := &pedido.Items[i]
		nombre := []rune(it.ProductoNombre)
		if len(nombre) > 26 {
			nombre = append(nombre[:25], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", it.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+it.Subtotal().StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+pedido.Total.StringFixed(0), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Pago: "+MetodoPagoLabel(pedido.MetodoPago)), "", 1, "L", false, 0, "")

	if pedido.ClienteNombre != nil {
		pdf.Ln(2)
		pdf.CellFormat(contentW, 4, tr("Cliente: "+*pedido.ClienteNombre), "", 1, "L", false, 0, "")
		if pedido.ClienteDireccion != nil {
			pdf.CellFormat(contentW, 4, tr("Dirección: "+*pedido.ClienteDireccion), "", 1, "L", false, 0, "")
		}
		if pedido.ClienteTelefono != nil {
			pdf.CellFormat(contentW, 4, tr("Teléfono: "+*pedido.ClienteTelefono), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// GuardarReciboPDF writes the receipt to storagePath/recibo_{codigo}.pdf and
// returns the file path.
func GuardarReciboPDF(pedido *model.Pedido, tienda, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, "recibo_"+pedido.Codigo+".pdf")
	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderReciboPDF(f, pedido, tienda); err != nil {
		f.Close()
		return "", fmt.Errorf("pdf: render: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
