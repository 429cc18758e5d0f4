package api

import (
	"errors"
	"strings"

	"obras/database"
	"obras/models"
	"obras/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubWorkHandler empreitadas (serviços) e seus pagamentos
type SubWorkHandler struct{}

// NewSubWorkHandler cria o handler de empreitadas
func NewSubWorkHandler() *SubWorkHandler {
	return &SubWorkHandler{}
}

// SubWorkRequest criação/edição de empreitada
type SubWorkRequest struct {
	Name          string          `json:"nome" example:"Elétrica"`
	Responsible   string          `json:"responsavel" example:"Carlos"`
	LaborTotal    decimal.Decimal `json:"valor_global_mao_de_obra" swaggertype:"number" example:"1500"`
	MaterialTotal decimal.Decimal `json:"valor_global_material" swaggertype:"number" example:"500"`
	PaymentKey    *string         `json:"pix"`
}

func (r *SubWorkRequest) apply(s *models.SubWork) error {
	s.Name = strings.TrimSpace(r.Name)
	s.Responsible = strings.TrimSpace(r.Responsible)
	s.LaborTotal = r.LaborTotal
	s.MaterialTotal = r.MaterialTotal
	s.PaymentKey = r.PaymentKey
	return s.Validate()
}

// SubWorkPaymentRequest parcela de empreitada
type SubWorkPaymentRequest struct {
	Kind     string              `json:"tipo_pagamento" example:"Mão de obra"`
	Total    decimal.Decimal     `json:"valor" swaggertype:"number" example:"800"`
	Paid     decimal.NullDecimal `json:"valor_pago" swaggertype:"number"`
	Date     models.Date         `json:"data" swaggertype:"string" example:"2025-02-01"`
	Status   string              `json:"status" example:"A Pagar"`
	Priority *int                `json:"prioridade"`
	Note     *string             `json:"observacao"`
}

func (r *SubWorkPaymentRequest) apply(p *models.SubWorkPayment, creating bool) error {
	kind := strings.TrimSpace(r.Kind)
	if kind == "" {
		return models.Invalid("tipo_pagamento é obrigatório")
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
		paid = decimal.NewNullDecimal(p.Paid)
	}
	settlement, err := models.NewSettlement(r.Total, paid, status)
	if err != nil {
		return err
	}
	p.Kind = kind
	p.Settlement = settlement
	p.Date = r.Date
	p.Priority = r.Priority
	p.Note = r.Note
	return nil
}

func loadSubWork(c *gin.Context) (*models.SubWork, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var sub models.SubWork
	if !findOwned(c, &sub, id, func() uint { return sub.ProjectID }, "empreitada não encontrada") {
		return nil, false
	}
	return &sub, true
}

// loadPayment parcela :pid da empreitada :id
func loadPayment(c *gin.Context) (*models.SubWork, *models.SubWorkPayment, bool) {
	sub, ok := loadSubWork(c)
	if !ok {
		return nil, nil, false
	}
	pid, ok := parseID(c, "pid")
	if !ok {
		return nil, nil, false
	}
	var payment models.SubWorkPayment
	if err := database.DB.Where("id = ? AND empreitada_id = ?", pid, sub.ID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "pagamento não encontrado")
		} else {
			respondError(c, err, "falha ao carregar pagamento")
		}
		return nil, nil, false
	}
	return sub, &payment, true
}

// List empreitadas da obra com totais
// @Summary Listar empreitadas
// @Tags Empreitadas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {array} models.SubWorkView
// @Router /obras/{id}/empreitadas [get]
func (h *SubWorkHandler) List(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var subWorks []models.SubWork
	if err := database.DB.Where("obra_id = ?", project.ID).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("data, id") }).
		Order("id").
		Find(&subWorks).Error; err != nil {
		respondError(c, err, "falha ao listar empreitadas")
		return
	}
	views := make([]models.SubWorkView, 0, len(subWorks))
	for _, s := range subWorks {
		views = append(views, models.NewSubWorkView(s))
	}
	Success(c, views)
}

// Create nova empreitada
// @Summary Criar empreitada
// @Tags Empreitadas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param request body SubWorkRequest true "Empreitada"
// @Success 201 {object} models.SubWorkView
// @Failure 400 {object} ErrorResponse
// @Router /obras/{id}/empreitadas [post]
func (h *SubWorkHandler) Create(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var req SubWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	sub := models.SubWork{ProjectID: project.ID}
	if err := req.apply(&sub); err != nil {
		respondError(c, err, "empreitada inválida")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&sub).Error
	})
	if err != nil {
		respondError(c, err, "falha ao criar empreitada")
		return
	}
	Created(c, models.NewSubWorkView(sub))
}

// Get empreitada com pagamentos
// @Summary Detalhe da empreitada
// @Tags Empreitadas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Success 200 {object} models.SubWorkView
// @Failure 404 {object} ErrorResponse
// @Router /empreitadas/{id} [get]
func (h *SubWorkHandler) Get(c *gin.Context) {
	sub, ok := loadSubWork(c)
	if !ok {
		return
	}
	if err := database.DB.Where("empreitada_id = ?", sub.ID).Order("data, id").Find(&sub.Payments).Error; err != nil {
		respondError(c, err, "falha ao carregar pagamentos")
		return
	}
	Success(c, models.NewSubWorkView(*sub))
}

// Update edita a empreitada
// @Summary Editar empreitada
// @Tags Empreitadas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Param request body SubWorkRequest true "Empreitada"
// @Success 200 {object} models.SubWork
// @Router /empreitadas/{id} [put]
func (h *SubWorkHandler) Update(c *gin.Context) {
	sub, ok := loadSubWork(c)
	if !ok {
		return
	}
	var req SubWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	if err := req.apply(sub); err != nil {
		respondError(c, err, "empreitada inválida")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(sub).Error
	})
	if err != nil {
		respondError(c, err, "falha ao atualizar empreitada")
		return
	}
	Success(c, sub)
}

// Delete remove a empreitada, as parcelas e as notas fiscais de ambas.
// Lançamentos vinculados perdem apenas o servico_id.
// @Summary Excluir empreitada
// @Tags Empreitadas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Success 200 {object} MessageResponse
// @Router /empreitadas/{id} [delete]
func (h *SubWorkHandler) Delete(c *gin.Context) {
	sub, ok := loadSubWork(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := service.DeleteSubWorkInvoices(tx, sub.ID); err != nil {
			return err
		}
		return tx.Delete(&models.SubWork{}, sub.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir empreitada")
		return
	}
	Deleted(c, "empreitada excluída")
}

// AddPayment nova parcela
// @Summary Adicionar pagamento à empreitada
// @Tags Empreitadas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Param request body SubWorkPaymentRequest true "Pagamento"
// @Success 201 {object} models.SubWorkPayment
// @Failure 400 {object} ErrorResponse
// @Router /empreitadas/{id}/pagamentos [post]
func (h *SubWorkHandler) AddPayment(c *gin.Context) {
	sub, ok := loadSubWork(c)
	if !ok {
		return
	}
	var req SubWorkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	payment := models.SubWorkPayment{SubWorkID: sub.ID}
	if err := req.apply(&payment, true); err != nil {
		respondError(c, err, "pagamento inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&payment).Error
	})
	if err != nil {
		respondError(c, err, "falha ao adicionar pagamento")
		return
	}
	Created(c, payment)
}

// UpdatePayment edição completa da parcela
// @Summary Editar pagamento da empreitada
// @Tags Empreitadas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Param pid path int true "ID do pagamento"
// @Param request body SubWorkPaymentRequest true "Pagamento"
// @Success 200 {object} models.SubWorkPayment
// @Router /empreitadas/{id}/pagamentos/{pid} [put]
func (h *SubWorkHandler) UpdatePayment(c *gin.Context) {
	_, payment, ok := loadPayment(c)
	if !ok {
		return
	}
	var req SubWorkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	if err := req.apply(payment, false); err != nil {
		respondError(c, err, "pagamento inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Save(payment).Error
	})
	if err != nil {
		respondError(c, err, "falha ao atualizar pagamento")
		return
	}
	Success(c, payment)
}

// RegisterPayment pagamento parcial da parcela
// @Summary Registrar pagamento parcial
// @Tags Empreitadas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Param pid path int true "ID do pagamento"
// @Param request body PaymentRequest true "Valor"
// @Success 200 {object} models.SubWorkPayment
// @Router /empreitadas/{id}/pagamentos/{pid}/pagamentos [post]
func (h *SubWorkHandler) RegisterPayment(c *gin.Context) {
	_, payment, ok := loadPayment(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(payment, payment.ID).Error; err != nil {
			return err
		}
		if err := payment.Apply(req.Amount); err != nil {
			return err
		}
		return tx.Save(payment).Error
	})
	if err != nil {
		respondError(c, err, "falha ao registrar pagamento")
		return
	}
	Success(c, payment)
}

// MarkPaymentPaid quita a parcela
// @Summary Marcar pagamento como pago
// @Tags Empreitadas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Param pid path int true "ID do pagamento"
// @Success 200 {object} models.SubWorkPayment
// @Router /empreitadas/{id}/pagamentos/{pid}/pago [patch]
func (h *SubWorkHandler) MarkPaymentPaid(c *gin.Context) {
	_, payment, ok := loadPayment(c)
	if !ok {
		return
	}
	payment.SettleFully()
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Save(payment).Error
	})
	if err != nil {
		respondError(c, err, "falha ao marcar pagamento")
		return
	}
	Success(c, payment)
}

// DeletePayment remove a parcela e suas notas fiscais
// @Summary Excluir pagamento da empreitada
// @Tags Empreitadas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da empreitada"
// @Param pid path int true "ID do pagamento"
// @Success 200 {object} MessageResponse
// @Router /empreitadas/{id}/pagamentos/{pid} [delete]
func (h *SubWorkHandler) DeletePayment(c *gin.Context) {
	_, payment, ok := loadPayment(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := service.DeleteInvoicesFor(tx, models.OwnerSubWorkPayment, payment.ID); err != nil {
			return err
		}
		return tx.Delete(&models.SubWorkPayment{}, payment.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir pagamento")
		return
	}
	Deleted(c, "pagamento excluído")
}
