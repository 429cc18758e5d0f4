package report

import (
	"fmt"
	"io"

	"obras/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXFileName nome da planilha de lançamentos
func XLSXFileName(projectID uint) string {
	return fmt.Sprintf("lancamentos_obra_%d.xlsx", projectID)
}

func cellBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// WriteEntriesXLSX planilha com todos os lançamentos da obra e linha de totais
func WriteEntriesXLSX(w io.Writer, project models.Project, entries []models.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Lançamentos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorders(),
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    cellBorders(),
	})
	if err != nil {
		return err
	}
	// formato 4 = #,##0.00
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Border: cellBorders()})
	if err != nil {
		return err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: cellBorders(),
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Obra: "+project.Name)
	f.MergeCell(sheet, "A1", "H1")

	widths := map[string]float64{"A": 12, "B": 18, "C": 36, "D": 14, "E": 14, "F": 14, "G": 10, "H": 24}
	for col, width := range widths {
		f.SetColWidth(sheet, col, col, width)
	}

	headers := []string{"Data", "Categoria", "Descrição", "Valor", "Valor Pago", "Saldo", "Status", "PIX"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	total, paid := decimal.Zero, decimal.Zero
	for i, e := range entries {
		row := i + 4
		key := ""
		if e.PaymentKey != nil {
			key = *e.PaymentKey
		}
		values := []interface{}{
			e.Date.BR(),
			e.Category,
			e.Description,
			e.Total.InexactFloat64(),
			e.Paid.InexactFloat64(),
			e.Residual().InexactFloat64(),
			string(e.Status),
			key,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("F%d", row), moneyStyle)
		total = total.Add(e.Total)
		paid = paid.Add(e.Paid)
	}

	summaryRow := len(entries) + 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), total.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("E%d", summaryRow), paid.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), total.Sub(paid).InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("%d lançamentos", len(entries)))
	f.MergeCell(sheet, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("H%d", summaryRow))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	return f.Write(w)
}
