package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"obras/database"
	"obras/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MaxInvoiceSize tamanho máximo de um arquivo de nota fiscal
const MaxInvoiceSize = 10 << 20

// InvoiceHandler notas fiscais anexadas
type InvoiceHandler struct{}

func NewInvoiceHandler() *InvoiceHandler {
	return &InvoiceHandler{}
}

// ownerInProject o dono precisa existir e pertencer à obra
func ownerInProject(db *gorm.DB, projectID uint, owner models.InvoiceOwner) error {
	var count int64
	var err error
	switch owner.Kind {
	case models.OwnerEntry:
		err = db.Model(&models.Entry{}).Where("id = ? AND obra_id = ?", owner.RefID, projectID).Count(&count).Error
	case models.OwnerSubWork:
		err = db.Model(&models.SubWork{}).Where("id = ? AND obra_id = ?", owner.RefID, projectID).Count(&count).Error
	case models.OwnerSubWorkPayment:
		err = db.Table("pagamentos_empreitada AS p").
			Joins("JOIN empreitadas e ON e.id = p.empreitada_id").
			Where("p.id = ? AND e.obra_id = ?", owner.RefID, projectID).
			Count(&count).Error
	default:
		return models.Invalid("tipo de dono inválido: %q", owner.Kind)
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return models.Invalid("%s %d não pertence a esta obra", owner.Kind, owner.RefID)
	}
	return nil
}

// loadInvoiceMeta nota sem o binário, com checagem de ACL
func loadInvoiceMeta(c *gin.Context) (*models.Invoice, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var inv models.Invoice
	if err := database.DB.Select(models.InvoiceMetadataColumns).First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "nota fiscal não encontrada")
		} else {
			respondError(c, err, "falha ao carregar nota fiscal")
		}
		return nil, false
	}
	if !requireProject(c, inv.ProjectID) {
		return nil, false
	}
	return &inv, true
}

// Upload anexa uma nota fiscal a um lançamento, empreitada ou pagamento
// @Summary Enviar nota fiscal
// @Tags Notas fiscais
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param arquivo formData file true "Arquivo"
// @Param tipo_dono formData string true "lancamento, empreitada ou pagamento"
// @Param dono_id formData int true "ID do dono"
// @Param numero_nf formData string false "Número da nota"
// @Success 201 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Router /obras/{id}/notas-fiscais [post]
func (h *InvoiceHandler) Upload(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}

	ownerID, _ := strconv.ParseUint(c.PostForm("dono_id"), 10, 32)
	owner, err := models.NewInvoiceOwner(c.PostForm("tipo_dono"), uint(ownerID))
	if err != nil {
		respondError(c, err, "dono inválido")
		return
	}

	fh, err := c.FormFile("arquivo")
	if err != nil {
		BadRequest(c, "arquivo é obrigatório")
		return
	}
	if fh.Size > MaxInvoiceSize {
		BadRequest(c, fmt.Sprintf("arquivo maior que %d MB", MaxInvoiceSize>>20))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "falha ao ler arquivo")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, MaxInvoiceSize+1))
	if err != nil {
		respondError(c, err, "falha ao ler arquivo")
		return
	}
	if len(content) > MaxInvoiceSize {
		BadRequest(c, fmt.Sprintf("arquivo maior que %d MB", MaxInvoiceSize>>20))
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(content)
	}

	inv := models.Invoice{
		ProjectID: project.ID,
		Owner:     owner,
		Number:    strings.TrimSpace(c.PostForm("numero_nf")),
		FileName:  filepath.Base(fh.Filename),
		MimeType:  mimeType,
		Size:      int64(len(content)),
		Content:   content,
	}
	err = txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := ownerInProject(tx, project.ID, owner); err != nil {
			return err
		}
		return tx.Create(&inv).Error
	})
	if err != nil {
		respondError(c, err, "falha ao salvar nota fiscal")
		return
	}
	Created(c, inv)
}

// List metadados das notas da obra, opcionalmente de um dono
// @Summary Listar notas fiscais
// @Tags Notas fiscais
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param tipo_dono query string false "Filtrar por tipo de dono"
// @Param dono_id query int false "Filtrar por dono"
// @Success 200 {array} models.Invoice
// @Router /obras/{id}/notas-fiscais [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	query := database.DB.Select(models.InvoiceMetadataColumns).Where("obra_id = ?", project.ID)
	if kind := c.Query("tipo_dono"); kind != "" {
		k, err := models.ParseOwnerKind(kind)
		if err != nil {
			respondError(c, err, "filtro inválido")
			return
		}
		query = query.Where("tipo_dono = ?", k)
		if id, err := strconv.ParseUint(c.Query("dono_id"), 10, 32); err == nil {
			query = query.Where("dono_id = ?", id)
		}
	}
	invoices := []models.Invoice{}
	if err := query.Order("data_upload DESC, id DESC").Find(&invoices).Error; err != nil {
		respondError(c, err, "falha ao listar notas fiscais")
		return
	}
	Success(c, invoices)
}

// Download devolve o arquivo com o tipo e o nome originais
// @Summary Baixar nota fiscal
// @Tags Notas fiscais
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "ID da nota"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /notas-fiscais/{id}/download [get]
func (h *InvoiceHandler) Download(c *gin.Context) {
	meta, ok := loadInvoiceMeta(c)
	if !ok {
		return
	}
	var inv models.Invoice
	if err := database.DB.First(&inv, meta.ID).Error; err != nil {
		respondError(c, err, "falha ao carregar nota fiscal")
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": inv.FileName}))
	c.Data(http.StatusOK, inv.MimeType, inv.Content)
}

// Get metadados de uma nota
// @Summary Detalhe da nota fiscal
// @Tags Notas fiscais
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da nota"
// @Success 200 {object} models.Invoice
// @Router /notas-fiscais/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, ok := loadInvoiceMeta(c)
	if !ok {
		return
	}
	Success(c, inv)
}

// Delete remove a nota
// @Summary Excluir nota fiscal
// @Tags Notas fiscais
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da nota"
// @Success 200 {object} MessageResponse
// @Router /notas-fiscais/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	inv, ok := loadInvoiceMeta(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.Invoice{}, inv.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir nota fiscal")
		return
	}
	Deleted(c, "nota fiscal excluída")
}
