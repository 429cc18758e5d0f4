package api

import (
	"errors"
	"net/http"
	"strings"

	"obras/database"
	"obras/models"
	"obras/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseHandler cronograma de compras
type PurchaseHandler struct {
	notifier service.AlertNotifier
	today    func() models.Date
}

// NewPurchaseHandler notifier pode ser nil quando o e-mail não está configurado
func NewPurchaseHandler(notifier service.AlertNotifier) *PurchaseHandler {
	return &PurchaseHandler{notifier: notifier, today: models.Today}
}

// PurchaseRequest criação/edição de item
type PurchaseRequest struct {
	Item            string              `json:"item" example:"Cimento CP-II"`
	Description     string              `json:"descricao"`
	SuggestedVendor string              `json:"fornecedor_sugerido"`
	Estimate        decimal.Decimal     `json:"valor_estimado" swaggertype:"number" example:"1200"`
	PlannedDate     models.Date         `json:"data_prevista" swaggertype:"string" example:"2025-03-12"`
	Status          string              `json:"status" example:"Pendente"`
	Category        string              `json:"categoria" example:"Material"`
	Priority        *int                `json:"prioridade" example:"3"`
	Notes           string              `json:"observacoes"`
	ActualDate      *models.Date        `json:"data_realizada" swaggertype:"string"`
	ActualAmount    decimal.NullDecimal `json:"valor_realizado" swaggertype:"number"`
}

func (r *PurchaseRequest) apply(p *models.PurchaseItem) error {
	status, err := models.ParsePurchaseStatus(r.Status)
	if err != nil {
		return err
	}
	p.Item = strings.TrimSpace(r.Item)
	p.Description = r.Description
	p.SuggestedVendor = r.SuggestedVendor
	p.Estimate = r.Estimate
	p.PlannedDate = r.PlannedDate
	p.Status = status
	p.Category = r.Category
	p.Priority = models.DefaultPurchasePriority
	if r.Priority != nil {
		p.Priority = *r.Priority
	}
	p.Notes = r.Notes
	p.ActualDate = r.ActualDate
	p.ActualAmount = r.ActualAmount
	return p.Validate()
}

// MarkRealizedRequest valor efetivo opcional; gerar_lancamento cria o lançamento pago
type MarkRealizedRequest struct {
	ActualAmount decimal.NullDecimal `json:"valor_realizado" swaggertype:"number"`
	CreateEntry  bool                `json:"gerar_lancamento"`
}

func loadPurchase(c *gin.Context) (*models.Project, *models.PurchaseItem, bool) {
	project, ok := projectFromParam(c)
	if !ok {
		return nil, nil, false
	}
	cid, ok := parseID(c, "cid")
	if !ok {
		return nil, nil, false
	}
	var item models.PurchaseItem
	if err := database.DB.Where("id = ? AND obra_id = ?", cid, project.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "item de compra não encontrado")
		} else {
			respondError(c, err, "falha ao carregar item de compra")
		}
		return nil, nil, false
	}
	return project, &item, true
}

// pendingItems itens pendentes da obra para os alertas
func pendingItems(projectID uint) ([]models.PurchaseItem, error) {
	var items []models.PurchaseItem
	err := database.DB.Where("obra_id = ? AND status = ?", projectID, models.PurchasePending).
		Order("data_prevista, id").
		Find(&items).Error
	return items, err
}

// List itens do cronograma; pendentes vencidos saem como Atrasada
// @Summary Listar cronograma de compras
// @Tags Compras
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {array} models.PurchaseItem
// @Router /obras/{id}/compras [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	items := []models.PurchaseItem{}
	if err := database.DB.Where("obra_id = ?", project.ID).Order("data_prevista, id").Find(&items).Error; err != nil {
		respondError(c, err, "falha ao listar compras")
		return
	}
	today := h.today()
	for i := range items {
		items[i].Status = items[i].EffectiveStatus(today)
	}
	Success(c, items)
}

// Create novo item
// @Summary Criar item de compra
// @Tags Compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param request body PurchaseRequest true "Item"
// @Success 201 {object} models.PurchaseItem
// @Failure 400 {object} ErrorResponse
// @Router /obras/{id}/compras [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	item := models.PurchaseItem{ProjectID: project.ID}
	if err := req.apply(&item); err != nil {
		respondError(c, err, "item inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		respondError(c, err, "falha ao criar item de compra")
		return
	}
	Created(c, item)
}

// Update edita o item; qualquer transição de status é aceita
// @Summary Editar item de compra
// @Tags Compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param cid path int true "ID do item"
// @Param request body PurchaseRequest true "Item"
// @Success 200 {object} models.PurchaseItem
// @Router /obras/{id}/compras/{cid} [put]
func (h *PurchaseHandler) Update(c *gin.Context) {
	_, item, ok := loadPurchase(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	entryID := item.EntryID
	if err := req.apply(item); err != nil {
		respondError(c, err, "item inválido")
		return
	}
	item.EntryID = entryID
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Entry").Save(item).Error
	})
	if err != nil {
		respondError(c, err, "falha ao atualizar item de compra")
		return
	}
	Success(c, item)
}

// Delete remove o item
// @Summary Excluir item de compra
// @Tags Compras
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param cid path int true "ID do item"
// @Success 200 {object} MessageResponse
// @Router /obras/{id}/compras/{cid} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	_, item, ok := loadPurchase(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.PurchaseItem{}, item.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir item de compra")
		return
	}
	Deleted(c, "item de compra excluído")
}

// MarkRealized conclui a compra com data de hoje
// @Summary Marcar compra como realizada
// @Description Sem valor_realizado usa a estimativa. Com gerar_lancamento cria o lançamento pago e vincula ao item.
// @Tags Compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param cid path int true "ID do item"
// @Param request body MarkRealizedRequest false "Opções"
// @Success 200 {object} models.PurchaseItem
// @Failure 400 {object} ErrorResponse
// @Router /obras/{id}/compras/{cid}/marcar-realizada [post]
func (h *PurchaseHandler) MarkRealized(c *gin.Context) {
	_, item, ok := loadPurchase(c)
	if !ok {
		return
	}
	var req MarkRealizedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, SafeErrorMessage(err, "payload inválido"))
			return
		}
	}

	today := h.today()
	if err := item.MarkRealized(req.ActualAmount, today); err != nil {
		respondError(c, err, "falha ao marcar compra")
		return
	}

	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		// compra de valor zero não gera lançamento
		if req.CreateEntry && item.EntryID == nil && item.ActualAmount.Decimal.IsPositive() {
			entry, err := realizedEntry(item, today)
			if err != nil {
				return err
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			item.EntryID = &entry.ID
		}
		return tx.Omit("Entry").Save(item).Error
	})
	if err != nil {
		respondError(c, err, "falha ao marcar compra")
		return
	}
	Success(c, item)
}

// realizedEntry lançamento quitado com o valor efetivo da compra
func realizedEntry(item *models.PurchaseItem, today models.Date) (models.Entry, error) {
	settlement, err := models.NewSettlement(item.ActualAmount.Decimal, decimal.NullDecimal{}, models.StatusPaid)
	if err != nil {
		return models.Entry{}, err
	}
	category := item.Category
	if category == "" {
		category = "Compra"
	}
	var vendor *string
	if item.SuggestedVendor != "" {
		v := item.SuggestedVendor
		vendor = &v
	}
	return models.Entry{
		ProjectID:   item.ProjectID,
		Category:    category,
		Description: item.Item,
		Settlement:  settlement,
		Date:        today,
		Vendor:      vendor,
	}, nil
}

// Alerts compras próximas (7 dias) e atrasadas
// @Summary Alertas de compras
// @Tags Compras
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {object} models.PurchaseAlerts
// @Router /obras/{id}/compras/alertas [get]
func (h *PurchaseHandler) Alerts(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	items, err := pendingItems(project.ID)
	if err != nil {
		respondError(c, err, "falha ao carregar compras")
		return
	}
	Success(c, models.ClassifyAlerts(items, h.today()))
}

// SendAlerts envia os alertas por e-mail aos destinatários configurados
// @Summary Enviar alertas de compras por e-mail
// @Tags Compras
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {object} models.PurchaseAlerts
// @Failure 503 {object} ErrorResponse
// @Router /obras/{id}/compras/alertas/enviar [post]
func (h *PurchaseHandler) SendAlerts(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	if h.notifier == nil {
		Error(c, http.StatusServiceUnavailable, "envio de e-mail não configurado")
		return
	}
	items, err := pendingItems(project.ID)
	if err != nil {
		respondError(c, err, "falha ao carregar compras")
		return
	}
	alerts := models.ClassifyAlerts(items, h.today())
	if err := h.notifier.SendPurchaseAlerts(*project, alerts); err != nil {
		if errors.Is(err, service.ErrEmailDisabled) || errors.Is(err, service.ErrNoRecipients) {
			Error(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(c, err, "falha ao enviar e-mail")
		return
	}
	Success(c, alerts)
}
