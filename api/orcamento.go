package api

import (
	"strings"

	"obras/database"
	"obras/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteHandler orçamentos
type QuoteHandler struct {
	today func() models.Date
}

func NewQuoteHandler() *QuoteHandler {
	return &QuoteHandler{today: models.Today}
}

// QuoteRequest criação/edição de orçamento
type QuoteRequest struct {
	Description string          `json:"descricao" example:"Telhado colonial"`
	Vendor      string          `json:"fornecedor" example:"Telhas Silva"`
	Amount      decimal.Decimal `json:"valor" swaggertype:"number" example:"8500"`
	Kind        string          `json:"tipo" example:"Material"`
	Status      string          `json:"status" example:"Pendente"`
	Note        string          `json:"observacoes"`
}

func (r *QuoteRequest) apply(q *models.Quote) error {
	status, err := models.ParseQuoteStatus(r.Status)
	if err != nil {
		return err
	}
	q.Description = strings.TrimSpace(r.Description)
	q.Vendor = strings.TrimSpace(r.Vendor)
	q.Amount = r.Amount
	q.Kind = strings.TrimSpace(r.Kind)
	q.Status = status
	q.Note = r.Note
	return q.Validate()
}

func loadQuote(c *gin.Context) (*models.Quote, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var quote models.Quote
	if !findOwned(c, &quote, id, func() uint { return quote.ProjectID }, "orçamento não encontrado") {
		return nil, false
	}
	return &quote, true
}

// List orçamentos da obra, mais recentes primeiro
// @Summary Listar orçamentos
// @Tags Orçamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {array} models.Quote
// @Router /obras/{id}/orcamentos [get]
func (h *QuoteHandler) List(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	quotes := []models.Quote{}
	if err := database.DB.Where("obra_id = ?", project.ID).Order("data_criacao DESC, id DESC").Find(&quotes).Error; err != nil {
		respondError(c, err, "falha ao listar orçamentos")
		return
	}
	Success(c, quotes)
}

// Create novo orçamento
// @Summary Criar orçamento
// @Tags Orçamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param request body QuoteRequest true "Orçamento"
// @Success 201 {object} models.Quote
// @Failure 400 {object} ErrorResponse
// @Router /obras/{id}/orcamentos [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	quote := models.Quote{ProjectID: project.ID}
	if err := req.apply(&quote); err != nil {
		respondError(c, err, "orçamento inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&quote).Error
	})
	if err != nil {
		respondError(c, err, "falha ao criar orçamento")
		return
	}
	Created(c, quote)
}

// Update edita o orçamento
// @Summary Editar orçamento
// @Tags Orçamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do orçamento"
// @Param request body QuoteRequest true "Orçamento"
// @Success 200 {object} models.Quote
// @Router /orcamentos/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	if err := req.apply(quote); err != nil {
		respondError(c, err, "orçamento inválido")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Entry").Save(quote).Error
	})
	if err != nil {
		respondError(c, err, "falha ao atualizar orçamento")
		return
	}
	Success(c, quote)
}

// Delete remove o orçamento; o lançamento gerado na aprovação permanece
// @Summary Excluir orçamento
// @Tags Orçamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do orçamento"
// @Success 200 {object} MessageResponse
// @Router /orcamentos/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.Quote{}, quote.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir orçamento")
		return
	}
	Deleted(c, "orçamento excluído")
}

// Approve aprova e gera o lançamento correspondente na mesma transação.
// Aprovar de novo não duplica o lançamento.
// @Summary Aprovar orçamento
// @Tags Orçamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do orçamento"
// @Success 200 {object} models.Quote
// @Failure 400 {object} ErrorResponse
// @Router /orcamentos/{id}/aprovar [post]
func (h *QuoteHandler) Approve(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(quote, quote.ID).Error; err != nil {
			return err
		}
		if quote.EntryID == nil {
			if !quote.Amount.IsPositive() {
				return models.Invalid("orçamento com valor zero não gera lançamento")
			}
			entry := quote.ToEntry(h.today())
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			quote.EntryID = &entry.ID
		}
		quote.Status = models.QuoteApproved
		return tx.Omit("Entry").Save(quote).Error
	})
	if err != nil {
		respondError(c, err, "falha ao aprovar orçamento")
		return
	}
	Success(c, quote)
}

// Reject marca como rejeitado
// @Summary Rejeitar orçamento
// @Tags Orçamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do orçamento"
// @Success 200 {object} models.Quote
// @Router /orcamentos/{id}/rejeitar [post]
func (h *QuoteHandler) Reject(c *gin.Context) {
	quote, ok := loadQuote(c)
	if !ok {
		return
	}
	quote.Status = models.QuoteRejected
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Model(quote).Update("status", models.QuoteRejected).Error
	})
	if err != nil {
		respondError(c, err, "falha ao rejeitar orçamento")
		return
	}
	Success(c, quote)
}
