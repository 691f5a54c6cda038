package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// BadgePDF renders a one-page landscape certificate with a verification QR code.
func BadgePDF(b Badge) ([]byte, error) {
	png, err := qrcode.Encode(b.VerificationText(), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("report: qr code: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Badge - "+b.Subject), false)
	pdf.SetCreator("safety-quiz", false)
	pdf.AddPage()
	w, h := pdf.GetPageSize()

	pdf.SetDrawColor(40, 167, 69)
	pdf.SetLineWidth(2)
	pdf.Rect(10, 10, w-20, h-20, "D")
	pdf.SetLineWidth(0.5)
	pdf.Rect(14, 14, w-28, h-28, "D")

	pdf.SetY(35)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 14, tr("Attestato di superamento"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, tr("Si certifica che"), "", 1, "C", false, 0, "")

	name := b.Name
	if name == "" {
		name = "Partecipante"
	}
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, tr(name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, tr("ha superato il test di verifica"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, tr(b.Subject), "", "C", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("in data %s con punteggio %s%%", FormatDate(b.Date), FormatPercent(b.Percentage))), "", 1, "C", false, 0, "")

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(png))
	side := 40.0
	pdf.ImageOptions("qr", w-side-22, h-side-22, side, side, false, opt, 0, "")
	pdf.SetXY(22, h-30)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(w-side-60, 5, tr("Verifica: inquadra il codice QR"), "", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: badge pdf: %w", err)
	}
	return buf.Bytes(), nil
}
