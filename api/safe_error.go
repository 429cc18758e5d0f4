package api

import (
	"context"
	"errors"
	"log"
	"strconv"

	"obras/config"
	"obras/database"
	"obras/middleware"
	"obras/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SafeErrorMessage em release não expõe detalhes internos
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// respondError converte o erro no status correspondente:
// validação 400, inexistente 404, violação de FK/unicidade 409, resto 500
func respondError(c *gin.Context, err error, fallback string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "registro não encontrado")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "registro duplicado")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		Conflict(c, "registro referenciado por outros dados")
	default:
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.FullPath(), err)
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}

// parseID lê um parâmetro de rota numérico; responde 400 se inválido
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "id inválido")
		return 0, false
	}
	return uint(id), true
}

// currentUser usuário resolvido por LoadCurrentUser
func currentUser(c *gin.Context) *models.User {
	return middleware.GetCurrentUser(c)
}

// requireProject master passa direto; demais precisam da obra na ACL
func requireProject(c *gin.Context, projectID uint) bool {
	user := currentUser(c)
	if user == nil {
		Unauthorized(c, "não autenticado")
		return false
	}
	if !user.CanAccess(projectID) {
		Forbidden(c, "sem permissão para acessar esta obra")
		return false
	}
	return true
}

// loadProject checa a ACL e carrega a obra (404 se não existir)
func loadProject(c *gin.Context, projectID uint) (*models.Project, bool) {
	if !requireProject(c, projectID) {
		return nil, false
	}
	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "obra não encontrada")
		} else {
			respondError(c, err, "falha ao carregar obra")
		}
		return nil, false
	}
	return &project, true
}

// projectFromParam atalho para rotas /obras/:id/...
func projectFromParam(c *gin.Context) (*models.Project, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	return loadProject(c, id)
}

// findOwned carrega um registro filho e checa a obra dona dele
func findOwned(c *gin.Context, dst interface{}, id uint, projectOf func() uint, notFound string) bool {
	if err := database.DB.First(dst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, notFound)
		} else {
			respondError(c, err, "falha ao carregar registro")
		}
		return false
	}
	return requireProject(c, projectOf())
}

// txCtx contexto das escritas: o cancelamento do cliente não aborta o commit
func txCtx(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func txDB(c *gin.Context) *gorm.DB {
	return database.DB.WithContext(txCtx(c))
}
