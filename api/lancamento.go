package api

import (
	"strings"

	"obras/database"
	"obras/models"
	"obras/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryHandler lançamentos financeiros
type EntryHandler struct{}

// NewEntryHandler cria o handler de lançamentos
func NewEntryHandler() *EntryHandler {
	return &EntryHandler{}
}

// EntryRequest criação e edição completa de lançamento
type EntryRequest struct {
	Category    string              `json:"tipo" example:"Material"`
	Description string              `json:"descricao" example:"Cimento"`
	Total       decimal.Decimal     `json:"valor" swaggertype:"number" example:"1000"`
	Paid        decimal.NullDecimal `json:"valor_pago" swaggertype:"number" example:"0"`
	Date        models.Date         `json:"data" swaggertype:"string" example:"2025-01-10"`
	Status      string              `json:"status" example:"A Pagar"`
	PaymentKey  *string             `json:"pix"`
	Priority    *int                `json:"prioridade"`
	Vendor      *string             `json:"fornecedor"`
	SubWorkID   *uint               `json:"servico_id"`
}

// PaymentRequest pagamento parcial
type PaymentRequest struct {
	Amount decimal.Decimal `json:"valor" swaggertype:"number" example:"250.50"`
}

// apply preenche e valida; Pago quita o total
func (r *EntryRequest) apply(e *models.Entry, creating bool) error {
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
	if r.Category == "" {
		return models.Invalid("tipo é obrigatório")
	}
	if r.Description == "" {
		return models.Invalid("descrição é obrigatória")
	}
	if r.Date.IsZero() {
		return models.Invalid("data é obrigatória")
	}
	status, err := models.ParseEntryStatus(r.Status)
	if err != nil {
		return err
	}

	paid := r.Paid
	if !creating && !paid.Valid {
		paid = decimal.NewNullDecimal(e.Paid)
	}
	settlement, err := models.NewSettlement(r.Total, paid, status)
	if err != nil {
		return err
	}

	e.Category = r.Category
	e.Description = r.Description
	e.Settlement = settlement
	e.Date = r.Date
	e.PaymentKey = r.PaymentKey
	e.Priority = r.Priority
	e.Vendor = r.Vendor
	e.SubWorkID = r.SubWorkID
	return nil
}

// checkSubWorkLink o serviço vinculado precisa ser da mesma obra
func checkSubWorkLink(tx *gorm.DB, projectID uint, subWorkID *uint) error {
	if subWorkID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.SubWork{}).
		Where("id = ? AND obra_id = ?", *subWorkID, projectID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.Invalid("servico_id não pertence a esta obra")
	}
	return nil
}

// deleteEntry apaga o lançamento e as notas fiscais dele
func deleteEntry(tx *gorm.DB, id uint) error {
	if err := service.DeleteInvoicesFor(tx, models.OwnerEntry, id); err != nil {
		return err
	}
	return tx.Delete(&models.Entry{}, id).Error
}

// loadEntry lançamento de :id com checagem de ACL
func loadEntry(c *gin.Context) (*models.Entry, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var entry models.Entry
	if !findOwned(c, &entry, id, func() uint { return entry.ProjectID }, "lançamento não encontrado") {
		return nil, false
	}
	return &entry, true
}

// List lançamentos da obra
// @Summary Listar lançamentos
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {array} models.Entry
// @Router /obras/{id}/lancamentos [get]
func (h *EntryHandler) List(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	entries := []models.Entry{}
	if err := database.DB.Where("obra_id = ?", project.ID).Order("data DESC, id DESC").Find(&entries).Error; err != nil {
		respondError(c, err, "falha ao listar lançamentos")
		return
	}
	Success(c, entries)
}

// Create novo lançamento
// @Summary Criar lançamento
// @Description valor_pago padrão 0; status "Pago" cria o lançamento quitado
// @Tags Lançamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param request body EntryRequest true "Lançamento"
// @Success 201 {object} models.Entry
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /obras/{id}/lancamentos [post]
func (h *EntryHandler) Create(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}

	entry := models.Entry{ProjectID: project.ID}
	if err := req.apply(&entry, true); err != nil {
		respondError(c, err, "lançamento inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := checkSubWorkLink(tx, project.ID, entry.SubWorkID); err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		respondError(c, err, "falha ao criar lançamento")
		return
	}
	Created(c, entry)
}

// Update edição completa
// @Summary Editar lançamento
// @Tags Lançamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do lançamento"
// @Param request body EntryRequest true "Lançamento"
// @Success 200 {object} models.Entry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lancamentos/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	entry, ok := loadEntry(c)
	if !ok {
		return
	}
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	if err := req.apply(entry, false); err != nil {
		respondError(c, err, "lançamento inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := checkSubWorkLink(tx, entry.ProjectID, entry.SubWorkID); err != nil {
			return err
		}
		return tx.Save(entry).Error
	})
	if err != nil {
		respondError(c, err, "falha ao atualizar lançamento")
		return
	}
	Success(c, entry)
}

// RegisterPayment soma um pagamento parcial ao valor pago
// @Summary Registrar pagamento
// @Tags Lançamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do lançamento"
// @Param request body PaymentRequest true "Valor pago"
// @Success 200 {object} models.Entry
// @Failure 400 {object} ErrorResponse
// @Router /lancamentos/{id}/pagamentos [post]
func (h *EntryHandler) RegisterPayment(c *gin.Context) {
	entry, ok := loadEntry(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(entry, entry.ID).Error; err != nil {
			return err
		}
		if err := entry.Apply(req.Amount); err != nil {
			return err
		}
		return tx.Save(entry).Error
	})
	if err != nil {
		respondError(c, err, "falha ao registrar pagamento")
		return
	}
	Success(c, entry)
}

// MarkPaid quita o lançamento
// @Summary Marcar como pago
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do lançamento"
// @Success 200 {object} models.Entry
// @Failure 404 {object} ErrorResponse
// @Router /lancamentos/{id}/pago [patch]
func (h *EntryHandler) MarkPaid(c *gin.Context) {
	entry, ok := loadEntry(c)
	if !ok {
		return
	}
	entry.SettleFully()
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Save(entry).Error
	})
	if err != nil {
		respondError(c, err, "falha ao marcar como pago")
		return
	}
	Success(c, entry)
}

// Delete remove o lançamento e suas notas fiscais
// @Summary Excluir lançamento
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do lançamento"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /lancamentos/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	entry, ok := loadEntry(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return deleteEntry(tx, entry.ID)
	})
	if err != nil {
		respondError(c, err, "falha ao excluir lançamento")
		return
	}
	Deleted(c, "lançamento excluído")
}

// Pending lançamentos com saldo em aberto
// @Summary Lançamentos pendentes
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {array} models.PendingEntry
// @Router /obras/{id}/lancamentos/pendentes [get]
func (h *EntryHandler) Pending(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var entries []models.Entry
	if err := database.DB.Where("obra_id = ? AND valor_pago < valor", project.ID).
		Order("data, id").
		Find(&entries).Error; err != nil {
		respondError(c, err, "falha ao listar pendências")
		return
	}
	out := make([]models.PendingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.NewPendingEntry(e))
	}
	Success(c, out)
}

// DeletePendingBalance exclui um lançamento que ainda tem saldo
// @Summary Excluir lançamento com saldo pendente
// @Tags Lançamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do lançamento"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /lancamentos/{id}/saldo-pendente [delete]
func (h *EntryHandler) DeletePendingBalance(c *gin.Context) {
	entry, ok := loadEntry(c)
	if !ok {
		return
	}
	if !entry.HasResidual() {
		BadRequest(c, "lançamento não possui saldo pendente")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return deleteEntry(tx, entry.ID)
	})
	if err != nil {
		respondError(c, err, "falha ao excluir lançamento")
		return
	}
	Deleted(c, "lançamento com saldo pendente excluído")
}
