package middleware

import (
	"net/http"
	"strings"

	"obras/models"

	"github.com/gin-gonic/gin"
)

// roleRule rota restrita a alguns papéis
type roleRule struct {
	method  string
	pattern string
	roles   []models.Role
}

var (
	masterOnly    = []models.Role{models.RoleMaster}
	masterOrAdmin = []models.Role{models.RoleMaster, models.RoleAdmin}
)

// roleRules rotas fora desta tabela ficam liberadas para qualquer usuário
// autenticado; o acesso por obra é checado nos handlers
var roleRules = []roleRule{
	{http.MethodPost, "/obras", masterOrAdmin},
	{http.MethodDelete, "/obras/:id", masterOrAdmin},
	{http.MethodGet, "/usuarios", masterOrAdmin},
	{http.MethodPost, "/usuarios", masterOrAdmin},
	{http.MethodPut, "/usuarios/:id/obras", masterOrAdmin},
	{http.MethodDelete, "/usuarios/:id", masterOnly},
	{http.MethodDelete, "/obras/:id/lancamentos/excluir-todos-pendentes", masterOrAdmin},
	{http.MethodDelete, "/lancamentos/excluir-todos-pendentes-global", masterOnly},
	{http.MethodDelete, "/limpar-tudo-pendente-global", masterOnly},
	{http.MethodPost, "/manutencao/bootstrap", masterOnly},
	{http.MethodPost, "/manutencao/tabelas/:tabela/recriar", masterOnly},
}

// allowedRoles nil quando a rota não tem restrição de papel
func allowedRoles(method, path string) []models.Role {
	for _, r := range roleRules {
		if r.method == method && matchPath(path, r.pattern) {
			return r.roles
		}
	}
	return nil
}

// RolePermission bloqueia com 403 rotas cujo papel não confere.
// Deve vir depois de LoadCurrentUser.
func RolePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := allowedRoles(c.Request.Method, c.Request.URL.Path)
		if roles == nil {
			c.Next()
			return
		}

		user := GetCurrentUser(c)
		if user == nil {
			abortWithError(c, http.StatusUnauthorized, "não autenticado")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "permissão negada")
	}
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return p
}

// matchPath /obras/12 casa com /obras/:id; :param vale um segmento não vazio
func matchPath(actual, pattern string) bool {
	a := splitPath(normalizePath(actual))
	p := splitPath(normalizePath(pattern))
	if len(a) != len(p) {
		return false
	}
	for i := range a {
		if len(p[i]) > 0 && p[i][0] == ':' {
			if a[i] == "" {
				return false
			}
			continue
		}
		if a[i] != p[i] {
			return false
		}
	}
	return true
}

func splitPath(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
