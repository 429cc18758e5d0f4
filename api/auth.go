package api

import (
	"errors"

	"obras/config"
	"obras/database"
	"obras/middleware"
	"obras/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler autenticação
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler cria o handler de autenticação
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest credenciais
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"master"`
	Password string `json:"password" binding:"required" example:"senha123"`
}

// LoginResponse token e dados do usuário
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"usuario"`
}

// Login autentica e emite o token
// @Summary Login
// @Description Valida usuário e senha e retorna um token Bearer
// @Tags Autenticação
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credenciais"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "usuário e senha são obrigatórios")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Unauthorized(c, "usuário ou senha inválidos")
			return
		}
		respondError(c, err, "falha ao autenticar")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "usuário ou senha inválidos")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		respondError(c, err, "falha ao gerar token")
		return
	}

	full, err := middleware.LoadUser(database.DB, user.ID)
	if err != nil {
		respondError(c, err, "falha ao carregar usuário")
		return
	}

	Success(c, LoginResponse{AccessToken: token, User: full})
}

// Me usuário autenticado com a lista de obras liberadas
// @Summary Usuário atual
// @Tags Autenticação
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		Unauthorized(c, "não autenticado")
		return
	}
	Success(c, user)
}
