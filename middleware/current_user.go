package middleware

import (
	"errors"
	"log"
	"net/http"

	"obras/database"
	"obras/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextUserKey chave do *models.User no contexto gin
const ContextUserKey = "currentUser"

// LoadUser lê o usuário e os ids da sua ACL
func LoadUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.UserProject{}).
		Where("usuario_id = ?", user.ID).
		Order("obra_id").
		Pluck("obra_id", &user.ProjectIDs).Error; err != nil {
		return nil, err
	}
	if user.ProjectIDs == nil {
		user.ProjectIDs = []uint{}
	}
	return &user, nil
}

// LoadCurrentUser resolve o usuário do token a cada requisição.
// Deve vir depois de JWTAuth.
func LoadCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			abortWithError(c, http.StatusUnauthorized, "não autenticado")
			return
		}

		user, err := LoadUser(database.DB, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, http.StatusUnauthorized, "usuário não encontrado")
				return
			}
			log.Printf("[%s] falha ao carregar usuário %d: %v", GetRequestID(c), userID, err)
			abortWithError(c, http.StatusInternalServerError, "erro interno")
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// GetCurrentUser nil fora de rotas autenticadas
func GetCurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
