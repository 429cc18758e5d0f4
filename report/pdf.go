package report

import (
	"fmt"
	"io"
	"time"

	"obras/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// larguras das colunas em mm (A4 retrato, margens de 10mm)
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Data", 25, "C"},
	{"Categoria", 35, "L"},
	{"Descrição", 70, "L"},
	{"Valor", 30, "R"},
	{"PIX", 30, "L"},
}

// PDFFileName nome do PDF de pendências
func PDFFileName(projectID uint) string {
	return fmt.Sprintf("pendentes_obra_%d.pdf", projectID)
}

// WritePendingPDF gera o relatório de lançamentos a pagar
func WritePendingPDF(w io.Writer, project models.Project, entries []models.Entry, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	// conteúdo sem compressão para que o texto possa ser inspecionado
	pdf.SetCompression(false)
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Pagamentos Pendentes"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Obra: "+project.Name), "", 1, "L", false, 0, "")
	client := "-"
	if project.Client != nil && *project.Client != "" {
		client = *project.Client
	}
	pdf.CellFormat(0, 7, tr("Cliente: "+client), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(79, 129, 189)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	total := decimal.Zero
	for _, e := range entries {
		key := ""
		if e.PaymentKey != nil {
			key = *e.PaymentKey
		}
		cells := []string{
			e.Date.BR(),
			truncate(e.Category, 15),
			truncate(e.Description, 35),
			FormatBRL(e.Total),
			truncate(key, 20),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
		total = total.Add(e.Total)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(255, 192, 0)
	labelWidth := pdfColumns[0].width + pdfColumns[1].width + pdfColumns[2].width
	pdf.CellFormat(labelWidth+pdfColumns[3].width+pdfColumns[4].width, 8,
		tr("TOTAL A PAGAR  "+FormatBRL(total)), "1", 1, "R", true, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr("Gerado em "+now.Format("02/01/2006")+" às "+now.Format("15:04")), "", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("falha ao montar PDF: %w", err)
	}
	return pdf.Output(w)
}
