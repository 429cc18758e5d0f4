package api

import (
	"sort"
	"strings"

	"obras/database"
	"obras/middleware"
	"obras/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler administração de usuários
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// CreateUserRequest novo usuário
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"bia"`
	Password string `json:"password" binding:"required,min=6" example:"senha123"`
	Role     string `json:"papel" example:"regular"`
	Projects []uint `json:"obras"`
}

// UserProjectsRequest ACL completa do usuário
type UserProjectsRequest struct {
	Projects []uint `json:"obras"`
}

// uniqueIDs ordena e remove repetidos
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// checkGrant admin só concede obras que ele mesmo enxerga
func checkGrant(actor *models.User, ids []uint) error {
	for _, id := range ids {
		if !actor.CanAccess(id) {
			return models.Invalid("sem permissão para conceder a obra %d", id)
		}
	}
	return nil
}

// replaceACL troca as obras do usuário dentro do escopo do ator.
// Para admin, concessões a obras fora da sua ACL ficam intactas.
func replaceACL(tx *gorm.DB, actor *models.User, userID uint, ids []uint) error {
	if len(ids) > 0 {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return models.Invalid("obra inexistente na lista")
		}
	}
	del := tx.Where("usuario_id = ?", userID)
	if !actor.IsMaster() {
		del = del.Where("obra_id IN ?", actor.ProjectIDs)
	}
	if actor.IsMaster() || len(actor.ProjectIDs) > 0 {
		if err := del.Delete(&models.UserProject{}).Error; err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		return nil
	}
	links := make([]models.UserProject, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.UserProject{UserID: userID, ProjectID: id})
	}
	return tx.Create(&links).Error
}

func loadACL(tx *gorm.DB, userID uint) ([]uint, error) {
	ids := []uint{}
	err := tx.Model(&models.UserProject{}).
		Where("usuario_id = ?", userID).
		Order("obra_id").
		Pluck("obra_id", &ids).Error
	if ids == nil {
		ids = []uint{}
	}
	return ids, err
}

// List usuários com suas obras
// @Summary Listar usuários
// @Tags Usuários
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse
// @Router /usuarios [get]
func (h *UserHandler) List(c *gin.Context) {
	users := []models.User{}
	if err := database.DB.Order("id").Find(&users).Error; err != nil {
		respondError(c, err, "falha ao listar usuários")
		return
	}
	var links []models.UserProject
	if err := database.DB.Order("usuario_id, obra_id").Find(&links).Error; err != nil {
		respondError(c, err, "falha ao listar permissões")
		return
	}
	byUser := map[uint][]uint{}
	for _, l := range links {
		byUser[l.UserID] = append(byUser[l.UserID], l.ProjectID)
	}
	for i := range users {
		users[i].ProjectIDs = byUser[users[i].ID]
		if users[i].ProjectIDs == nil {
			users[i].ProjectIDs = []uint{}
		}
	}
	Success(c, users)
}

// Create novo usuário; admin não cria master
// @Summary Criar usuário
// @Tags Usuários
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "Usuário"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /usuarios [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "username (3 a 50 caracteres) e password (mínimo 6) são obrigatórios")
		return
	}
	role := models.RoleRegular
	if req.Role != "" {
		r, err := models.ParseRole(req.Role)
		if err != nil {
			respondError(c, err, "papel inválido")
			return
		}
		role = r
	}

	actor := currentUser(c)
	if role == models.RoleMaster && !actor.IsMaster() {
		Forbidden(c, "apenas master pode criar outro master")
		return
	}
	ids := uniqueIDs(req.Projects)
	if err := checkGrant(actor, ids); err != nil {
		Forbidden(c, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err, "falha ao processar senha")
		return
	}
	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Password: string(hash),
		Role:     role,
	}
	err = txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return replaceACL(tx, actor, user.ID, ids)
	})
	if err != nil {
		respondError(c, err, "falha ao criar usuário")
		return
	}
	user.ProjectIDs = ids
	Created(c, user)
}

// SetProjects substitui a lista de obras do usuário
// @Summary Definir obras do usuário
// @Tags Usuários
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do usuário"
// @Param request body UserProjectsRequest true "Obras"
// @Success 200 {object} models.User
// @Router /usuarios/{id}/obras [put]
func (h *UserHandler) SetProjects(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UserProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "payload inválido"))
		return
	}

	target, err := middleware.LoadUser(database.DB, id)
	if err != nil {
		respondError(c, err, "falha ao carregar usuário")
		return
	}
	actor := currentUser(c)
	if target.IsMaster() && !actor.IsMaster() {
		Forbidden(c, "apenas master altera outro master")
		return
	}
	ids := uniqueIDs(req.Projects)
	if err := checkGrant(actor, ids); err != nil {
		Forbidden(c, err.Error())
		return
	}

	err = txDB(c).Transaction(func(tx *gorm.DB) error {
		if err := replaceACL(tx, actor, target.ID, ids); err != nil {
			return err
		}
		acl, err := loadACL(tx, target.ID)
		if err != nil {
			return err
		}
		target.ProjectIDs = acl
		return nil
	})
	if err != nil {
		respondError(c, err, "falha ao atualizar obras do usuário")
		return
	}
	Success(c, target)
}

// Delete remove o usuário e sua ACL
// @Summary Excluir usuário
// @Tags Usuários
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do usuário"
// @Success 200 {object} MessageResponse
// @Router /usuarios/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if id == currentUser(c).ID {
		BadRequest(c, "não é possível excluir o próprio usuário")
		return
	}
	err := txDB(c).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "falha ao excluir usuário")
		return
	}
	Deleted(c, "usuário excluído")
}
