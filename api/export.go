package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"obras/database"
	"obras/models"
	"obras/report"

	"github.com/gin-gonic/gin"
)

// ExportHandler relatórios da obra
type ExportHandler struct {
	now func() time.Time
}

// NewExportHandler cria o handler de exportação
func NewExportHandler() *ExportHandler {
	return &ExportHandler{now: time.Now}
}

func sendFile(c *gin.Context, contentType, filename string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportCSV todos os lançamentos da obra
// @Summary Exportar lançamentos em CSV
// @Tags Exportação
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {file} file "relatorio_obra_<id>.csv"
// @Failure 403 {object} ErrorResponse
// @Router /obras/{id}/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var entries []models.Entry
	if err := database.DB.Where("obra_id = ?", project.ID).Order("data, id").Find(&entries).Error; err != nil {
		respondError(c, err, "falha ao carregar lançamentos")
		return
	}

	buf := new(bytes.Buffer)
	if err := report.WriteEntriesCSV(buf, entries); err != nil {
		respondError(c, err, "falha ao gerar CSV")
		return
	}
	sendFile(c, "text/csv; charset=utf-8", report.CSVFileName(project.ID), buf)
}

// ExportPendingPDF lançamentos A Pagar com total no rodapé
// @Summary Exportar pendências em PDF
// @Tags Exportação
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {file} file "pendentes_obra_<id>.pdf"
// @Router /obras/{id}/export/pdf_pendentes [get]
func (h *ExportHandler) ExportPendingPDF(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var entries []models.Entry
	if err := database.DB.Where("obra_id = ? AND status = ?", project.ID, models.StatusToPay).
		Order("data, id").
		Find(&entries).Error; err != nil {
		respondError(c, err, "falha ao carregar pendências")
		return
	}

	buf := new(bytes.Buffer)
	if err := report.WritePendingPDF(buf, *project, entries, h.now()); err != nil {
		respondError(c, err, "falha ao gerar PDF")
		return
	}
	sendFile(c, "application/pdf", report.PDFFileName(project.ID), buf)
}

// ExportXLSX planilha com todos os lançamentos e totais
// @Summary Exportar lançamentos em Excel
// @Tags Exportação
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {file} file "lancamentos_obra_<id>.xlsx"
// @Router /obras/{id}/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var entries []models.Entry
	if err := database.DB.Where("obra_id = ?", project.ID).Order("data, id").Find(&entries).Error; err != nil {
		respondError(c, err, "falha ao carregar lançamentos")
		return
	}

	buf := new(bytes.Buffer)
	if err := report.WriteEntriesXLSX(buf, *project, entries); err != nil {
		respondError(c, err, "falha ao gerar planilha")
		return
	}
	sendFile(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.XLSXFileName(project.ID), buf)
}
