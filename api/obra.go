package api

import (
	"strings"

	"obras/database"
	"obras/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectHandler obras
type ProjectHandler struct{}

// NewProjectHandler cria o handler de obras
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// CreateProjectRequest nova obra
type CreateProjectRequest struct {
	Name   string  `json:"nome" binding:"required" example:"Casa A"`
	Client *string `json:"cliente" example:"João"`
}

// List obras visíveis ao usuário
// @Summary Listar obras
// @Description Master vê todas; demais apenas as obras da sua ACL
// @Tags Obras
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Failure 401 {object} ErrorResponse
// @Router /obras [get]
func (h *ProjectHandler) List(c *gin.Context) {
	user := currentUser(c)
	projects := []models.Project{}

	query := database.DB.Order("id")
	if !user.IsMaster() {
		if len(user.ProjectIDs) == 0 {
			Success(c, projects)
			return
		}
		query = query.Where("id IN ?", user.ProjectIDs)
	}
	if err := query.Find(&projects).Error; err != nil {
		respondError(c, err, "falha ao listar obras")
		return
	}
	Success(c, projects)
}

// Create cria uma obra; obra criada por admin entra na ACL dele
// @Summary Criar obra
// @Tags Obras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Obra"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /obras [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		BadRequest(c, "nome da obra é obrigatório")
		return
	}

	user := currentUser(c)
	project := models.Project{Name: strings.TrimSpace(req.Name), Client: req.Client}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if user.IsMaster() {
			return nil
		}
		return tx.Create(&models.UserProject{UserID: user.ID, ProjectID: project.ID}).Error
	})
	if err != nil {
		respondError(c, err, "falha ao criar obra")
		return
	}
	Created(c, project)
}

// Get detalhe da obra com lançamentos, empreitadas e sumário
// @Summary Detalhe da obra
// @Description Lançamentos por data decrescente, empreitadas com pagamentos e indicadores financeiros
// @Tags Obras
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {object} models.ProjectDetail
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /obras/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}

	entries := []models.Entry{}
	if err := database.DB.Where("obra_id = ?", project.ID).
		Order("data DESC, id DESC").
		Find(&entries).Error; err != nil {
		respondError(c, err, "falha ao carregar lançamentos")
		return
	}

	var subWorks []models.SubWork
	if err := database.DB.Where("obra_id = ?", project.ID).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("data, id") }).
		Order("id").
		Find(&subWorks).Error; err != nil {
		respondError(c, err, "falha ao carregar empreitadas")
		return
	}

	views := make([]models.SubWorkView, 0, len(subWorks))
	for _, s := range subWorks {
		views = append(views, models.NewSubWorkView(s))
	}

	Success(c, models.ProjectDetail{
		Project:  *project,
		Entries:  entries,
		SubWorks: views,
		Summary:  models.BuildSummary(entries, subWorks),
	})
}

// Delete remove a obra e, por cascata, tudo que pertence a ela
// @Summary Excluir obra
// @Tags Obras
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /obras/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.Project{}, project.ID).Error
	})
	if err != nil {
		respondError(c, err, "falha ao excluir obra")
		return
	}
	Deleted(c, "obra excluída")
}
