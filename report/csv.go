package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"obras/models"
)

// CSVHeader cabeçalho fixo do relatório de lançamentos
var CSVHeader = []string{"Date", "Description", "Category", "Amount", "Status", "PaymentKey"}

// CSVFileName relatorio_obra_<id>.csv
func CSVFileName(projectID uint) string {
	return fmt.Sprintf("relatorio_obra_%d.csv", projectID)
}

// WriteEntriesCSV uma linha por lançamento, datas ISO e valores sem formatação
func WriteEntriesCSV(w io.Writer, entries []models.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		key := ""
		if e.PaymentKey != nil {
			key = *e.PaymentKey
		}
		row := []string{
			e.Date.String(),
			e.Description,
			e.Category,
			e.Total.StringFixed(2),
			string(e.Status),
			key,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
