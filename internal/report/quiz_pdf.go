package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

// QuizPDF renders the full report: header, score, every question with its
// displayed options and the given answer, then the errors section.
func QuizPDF(d Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Report quiz - "+d.Subject()), false)
	pdf.SetCreator("safety-quiz", false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Pagina %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Report quiz formazione sicurezza"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	name := d.Participant.Name
	if name == "" {
		name = "-"
	}
	pdf.SetFont("Helvetica", "", 11)
	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, lineHeight, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, tr(value), "", "L", false)
	}
	field("Partecipante:", name)
	if d.Participant.Email != "" {
		field("Email:", d.Participant.Email)
	}
	field("Corso / Modulo:", d.Subject())
	if t := d.Topic(); t != "" && t != d.Subject() {
		field("Argomento:", t)
	}
	field("Data quiz:", FormatDate(d.Participant.QuizDate))
	if d.Grader.Username != "" {
		grader := d.Grader.Username
		if d.Grader.Organization != "" {
			grader += " (" + d.Grader.Organization + ")"
		}
		field("Somministrato da:", grader)
	}
	if d.Instance != nil && d.Instance.Seeded {
		field("Seed:", d.Instance.Seed)
	}
	res := d.Result
	field("Punteggio:", fmt.Sprintf("%d / %d (%s%%)", res.Score, res.Total, FormatPercent(res.Percentage)))
	if res.Unscorable > 0 {
		field("Non valutabili:", fmt.Sprintf("%d", res.Unscorable))
	}
	pdf.Ln(3)

	banner := fmt.Sprintf("Test NON superato (soglia %s%%)", FormatPercent(quiz.PassThreshold))
	pdf.SetFillColor(220, 53, 69)
	if res.Passed {
		banner = fmt.Sprintf("Test SUPERATO (soglia %s%%)", FormatPercent(quiz.PassThreshold))
		pdf.SetFillColor(40, 167, 69)
	}
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, tr(banner), "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Domande", "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	for i, ir := range res.Items {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", ir.Position, ir.Question)), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		if d.Instance != nil && i < len(d.Instance.Items) {
			for j, opt := range d.Instance.Items[i].Options {
				mark := "   "
				if ir.Given != "" && opt.Text == ir.Given {
					mark = "[x]"
				}
				pdf.MultiCell(0, 5, tr(fmt.Sprintf("   %s %s) %s", mark, quiz.Labels[j], opt.Text)), "", "L", false)
			}
		}
		given := ir.Given
		if given == "" {
			given = "NON RISPOSTA"
		}
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("   Risposta data: %s - Esito: %s", given, OutcomeLabel(ir.Outcome))), "", "L", false)
		pdf.Ln(2)
	}

	errs := res.Errors()
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Domande errate / non risposte"), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	if len(errs) == 0 {
		pdf.MultiCell(0, 5, tr("Tutte le risposte sono corrette."), "", "L", false)
	}
	for _, e := range errs {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. [%s] %s", e.Position, e.Code, e.Question)), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr("   Esito: "+OutcomeLabel(e.Outcome)), "", "L", false)
		if e.Given != "" {
			pdf.MultiCell(0, 5, tr("   Risposta data: "+e.Given), "", "L", false)
		}
		pdf.MultiCell(0, 5, tr("   Risposta corretta: "+e.Correct), "", "L", false)
		if e.Reference != "" {
			pdf.MultiCell(0, 5, tr("   Riferimento: "+e.Reference), "", "L", false)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: quiz pdf: %w", err)
	}
	return buf.Bytes(), nil
}
