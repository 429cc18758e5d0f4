package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"obras/config"
	"obras/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "senha_hash", "papel", "criado_em"}

func newAuthHandler() *AuthHandler {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)
	return NewAuthHandler(cfg)
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE username = \\?").
		WithArgs("ana", 1).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "ana", string(hash), "admin", time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE `usuarios`.`id` = \\?").
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "ana", string(hash), "admin", time.Now()))
	mock.ExpectQuery("SELECT `obra_id` FROM `usuario_obras` WHERE usuario_id = \\?").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"obra_id"}).AddRow(1).AddRow(4))

	r := newRouter(master)
	r.POST("/login", newAuthHandler().Login)

	w := doRequest(r, "POST", "/login", `{"username":"ana","password":"senha123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)

	token, _ := resp["access_token"].(string)
	require.NotEmpty(t, token)
	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(2), claims.UserID)

	user := resp["usuario"].(map[string]interface{})
	assert.Equal(t, "admin", user["papel"])
	assert.Equal(t, []interface{}{float64(1), float64(4)}, user["obras"])
	assert.NotContains(t, user, "senha_hash")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE username = \\?").
		WithArgs("ana", 1).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "ana", string(hash), "admin", time.Now()))

	r := newRouter(master)
	r.POST("/login", newAuthHandler().Login)

	w := doRequest(r, "POST", "/login", `{"username":"ana","password":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "usuário ou senha inválidos", decode(t, w)["erro"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE username = \\?").
		WithArgs("ninguem", 1).
		WillReturnRows(sqlmock.NewRows(userColumns))

	r := newRouter(master)
	r.POST("/login", newAuthHandler().Login)

	w := doRequest(r, "POST", "/login", `{"username":"ninguem","password":"senha123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "usuário ou senha inválidos", decode(t, w)["erro"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	r := newRouter(master)
	r.POST("/login", newAuthHandler().Login)

	w := doRequest(r, "POST", "/login", `{"username":"ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	r := newRouter(admin)
	r.GET("/me", NewAuthHandler(&config.Config{}).Me)

	w := doRequest(r, "GET", "/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "ana", resp["username"])
	assert.Equal(t, []interface{}{float64(1)}, resp["obras"])
}

func TestAuthHandler_Login_DatabaseError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE username = \\?").
		WithArgs("ana", 1).
		WillReturnError(errors.New("connection refused"))

	r := newRouter(master)
	r.POST("/login", newAuthHandler().Login)

	w := doRequest(r, "POST", "/login", `{"username":"ana","password":"senha123"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "usuário ou senha inválidos", decode(t, w)["erro"])
	require.NoError(t, mock.ExpectationsWereMet())
}
