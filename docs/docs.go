// Package docs documento Swagger das rotas principais.
// Mantido à mão; "swag init" regenera a versão completa a partir das anotações dos handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "description": "Valida usuário e senha e retorna um token Bearer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Autenticação"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credenciais",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Autenticação"],
                "summary": "Usuário atual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/obras": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Obras"],
                "summary": "Listar obras visíveis ao usuário",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Project"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Obras"],
                "summary": "Criar obra",
                "parameters": [
                    {
                        "description": "Obra",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.CreateProjectRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Project"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/obras/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Obras"],
                "summary": "Detalhe da obra com sumário financeiro",
                "parameters": [
                    {"type": "integer", "description": "ID da obra", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ProjectDetail"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Obras"],
                "summary": "Excluir obra e todos os registros dependentes",
                "parameters": [
                    {"type": "integer", "description": "ID da obra", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}}
                }
            }
        },
        "/obras/{id}/lancamentos": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lançamentos"],
                "summary": "Criar lançamento",
                "parameters": [
                    {"type": "integer", "description": "ID da obra", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Lançamento",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.EntryRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Entry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/lancamentos/{id}/pago": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Lançamentos"],
                "summary": "Marcar lançamento como pago",
                "parameters": [
                    {"type": "integer", "description": "ID do lançamento", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Entry"}}
                }
            }
        },
        "/obras/{id}/export/csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["Exportação"],
                "summary": "Exportar lançamentos em CSV",
                "parameters": [
                    {"type": "integer", "description": "ID da obra", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "relatorio_obra_<id>.csv", "schema": {"type": "file"}}
                }
            }
        },
        "/obras/{id}/export/pdf_pendentes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "tags": ["Exportação"],
                "summary": "Exportar pendências em PDF",
                "parameters": [
                    {"type": "integer", "description": "ID da obra", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "pendentes_obra_<id>.pdf", "schema": {"type": "file"}}
                }
            }
        }
    },
    "definitions": {
        "api.CreateProjectRequest": {
            "type": "object",
            "required": ["nome"],
            "properties": {
                "cliente": {"type": "string", "example": "João"},
                "nome": {"type": "string", "example": "Casa A"}
            }
        },
        "api.EntryRequest": {
            "type": "object",
            "properties": {
                "data": {"type": "string", "example": "2025-01-10"},
                "descricao": {"type": "string", "example": "Cimento"},
                "pix": {"type": "string"},
                "status": {"type": "string", "example": "A Pagar"},
                "tipo": {"type": "string", "example": "Material"},
                "valor": {"type": "number", "example": 1000},
                "valor_pago": {"type": "number"}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "erro": {"type": "string"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "senha123"},
                "username": {"type": "string", "example": "master"}
            }
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "usuario": {"$ref": "#/definitions/models.User"}
            }
        },
        "api.MessageResponse": {
            "type": "object",
            "properties": {
                "mensagem": {"type": "string"}
            }
        },
        "models.Entry": {
            "type": "object",
            "properties": {
                "data": {"type": "string"},
                "descricao": {"type": "string"},
                "id": {"type": "integer"},
                "obra_id": {"type": "integer"},
                "pix": {"type": "string"},
                "status": {"type": "string"},
                "tipo": {"type": "string"},
                "valor": {"type": "number"},
                "valor_pago": {"type": "number"}
            }
        },
        "models.Project": {
            "type": "object",
            "properties": {
                "cliente": {"type": "string"},
                "id": {"type": "integer"},
                "nome": {"type": "string"}
            }
        },
        "models.ProjectDetail": {
            "type": "object",
            "properties": {
                "empreitadas": {"type": "array", "items": {"type": "object"}},
                "lancamentos": {"type": "array", "items": {"$ref": "#/definitions/models.Entry"}},
                "obra": {"$ref": "#/definitions/models.Project"},
                "sumarios": {"type": "object"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "criado_em": {"type": "string"},
                "id": {"type": "integer"},
                "obras": {"type": "array", "items": {"type": "integer"}},
                "papel": {"type": "string"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Gestão de Obras API",
	Description:      "Obras, lançamentos, empreitadas, compras, cronograma, notas fiscais e usuários com acesso por obra",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
