package api

import (
	"errors"
	"strings"

	"obras/database"
	"obras/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScheduleHandler cronograma de execução da obra
type ScheduleHandler struct{}

func NewScheduleHandler() *ScheduleHandler {
	return &ScheduleHandler{}
}

// ScheduleRequest etapa do cronograma
type ScheduleRequest struct {
	Service     string       `json:"servico" example:"Fundação"`
	Order       int          `json:"ordem" example:"1"`
	StartDate   *models.Date `json:"data_inicio" swaggertype:"string" example:"2025-01-06"`
	PlannedEnd  *models.Date `json:"data_fim_prevista" swaggertype:"string" example:"2025-02-14"`
	PercentDone int          `json:"percentual_concluido" example:"0"`
	Notes       string       `json:"observacoes"`
}

func (r *ScheduleRequest) apply(s *models.ScheduleStage) error {
	s.Service = strings.TrimSpace(r.Service)
	s.Order = r.Order
	s.StartDate = r.StartDate
	s.PlannedEnd = r.PlannedEnd
	s.PercentDone = r.PercentDone
	s.Notes = r.Notes
	return s.Validate()
}

var errOrderTaken = errors.New("já existe uma etapa com esta ordem na obra")

// checkOrder ordem única por obra; o índice único cobre corridas entre requisições
func checkOrder(tx *gorm.DB, projectID uint, order int, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.ScheduleStage{}).
		Where("obra_id = ? AND ordem = ? AND id <> ?", projectID, order, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errOrderTaken
	}
	return nil
}

func respondScheduleError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, errOrderTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
		Conflict(c, errOrderTaken.Error())
		return
	}
	respondError(c, err, fallback)
}

func loadStage(c *gin.Context) (*models.ScheduleStage, bool) {
	project, ok := projectFromParam(c)
	if !ok {
		return nil, false
	}
	cid, ok := parseID(c, "cid")
	if !ok {
		return nil, false
	}
	var stage models.ScheduleStage
	if err := database.DB.Where("id = ? AND obra_id = ?", cid, project.ID).First(&stage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "etapa não encontrada")
		} else {
			respondError(c, err, "falha ao carregar etapa")
		}
		return nil, false
	}
	return &stage, true
}

// List etapas por ordem
// @Summary Listar cronograma da obra
// @Tags Cronograma
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {array} models.ScheduleStage
// @Router /obras/{id}/cronograma [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	stages := []models.ScheduleStage{}
	if err := database.DB.Where("obra_id = ?", project.ID).Order("ordem").Find(&stages).Error; err != nil {
		respondError(c, err, "falha ao listar cronograma")
		return
	}
	Success(c, stages)
}

// Create nova etapa
// @Summary Criar etapa
// @Tags Cronograma
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param request body ScheduleRequest true "Etapa"
// @Success 201 {object} models.ScheduleStage
// @Failure 409 {object} ErrorResponse
// @Router /obras/{id}/cronograma [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	stage := models.ScheduleStage{ProjectID: project.ID}
	if err := req.apply(&stage); err != nil {
		respondError(c, err, "etapa inválida")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := checkOrder(tx, project.ID, stage.Order, 0); err != nil {
			return err
		}
		return tx.Create(&stage).Error
	})
	if err != nil {
		respondScheduleError(c, err, "falha ao criar etapa")
		return
	}
	Created(c, stage)
}

// Update edita a etapa
// @Summary Editar etapa
// @Tags Cronograma
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param cid path int true "ID da etapa"
// @Param request body ScheduleRequest true "Etapa"
// @Success 200 {object} models.ScheduleStage
// @Failure 409 {object} ErrorResponse
// @Router /obras/{id}/cronograma/{cid} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	stage, ok := loadStage(c)
	if !ok {
		return
	}
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}
	if err := req.apply(stage); err != nil {
		respondError(c, err, "etapa inválida")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := checkOrder(tx, stage.ProjectID, stage.Order, stage.ID); err != nil {
			return err
		}
		return tx.Save(stage).Error
	})
	if err != nil {
		respondScheduleError(c, err, "falha ao atualizar etapa")
		return
	}
	Success(c, stage)
}

// Delete remove a etapa
// @Summary Excluir etapa
// @Tags Cronograma
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param cid path int true "ID da etapa"
// @Success 200 {object} MessageResponse
// @Router /obras/{id}/cronograma/{cid} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	stage, ok := loadStage(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.ScheduleStage{}, stage.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir etapa")
		return
	}
	Deleted(c, "etapa excluída")
}
