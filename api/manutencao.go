package api

import (
	"errors"
	"log"
	"strconv"

	"obras/database"
	"obras/middleware"
	"obras/service"

	"github.com/gin-gonic/gin"
)

// MaintenanceHandler operações de manutenção: limpezas em massa e schema
type MaintenanceHandler struct{}

func NewMaintenanceHandler() *MaintenanceHandler {
	return &MaintenanceHandler{}
}

// cleanupMode dry_run=true só relata; execução real exige confirmar=EXCLUIR
func cleanupMode(c *gin.Context) (dryRun bool, ok bool) {
	dryRun, _ = strconv.ParseBool(c.Query("dry_run"))
	if !dryRun && c.Query("confirmar") != service.ConfirmationToken {
		BadRequest(c, "operação irreversível: informe confirmar="+service.ConfirmationToken+" ou dry_run=true")
		return false, false
	}
	return dryRun, true
}

func (h *MaintenanceHandler) respondCleanup(c *gin.Context, rep service.CleanupReport, err error) {
	if err != nil {
		respondError(c, err, "falha na limpeza de pendências")
		return
	}
	if !rep.DryRun {
		user := currentUser(c)
		log.Printf("[%s] limpeza executada por %s: %d lançamentos, %d pagamentos",
			middleware.GetRequestID(c), user.Username, rep.Total.Entries, rep.Total.Payments)
	}
	Success(c, rep)
}

// CleanupProject exclui todos os lançamentos com saldo de uma obra
// @Summary Excluir lançamentos pendentes da obra
// @Tags Manutenção
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da obra"
// @Param confirmar query string false "EXCLUIR"
// @Param dry_run query bool false "Apenas simular"
// @Success 200 {object} service.CleanupReport
// @Failure 400 {object} ErrorResponse
// @Router /obras/{id}/lancamentos/excluir-todos-pendentes [delete]
func (h *MaintenanceHandler) CleanupProject(c *gin.Context) {
	project, ok := projectFromParam(c)
	if !ok {
		return
	}
	dryRun, ok := cleanupMode(c)
	if !ok {
		return
	}
	svc := service.NewMaintenanceService(database.DB)
	rep, err := svc.CleanupProjectPending(txCtx(c), project.ID, dryRun)
	h.respondCleanup(c, rep, err)
}

// CleanupAll lançamentos com saldo de todas as obras
// @Summary Excluir lançamentos pendentes de todas as obras
// @Tags Manutenção
// @Produce json
// @Security BearerAuth
// @Param confirmar query string false "EXCLUIR"
// @Param dry_run query bool false "Apenas simular"
// @Success 200 {object} service.CleanupReport
// @Router /lancamentos/excluir-todos-pendentes-global [delete]
func (h *MaintenanceHandler) CleanupAll(c *gin.Context) {
	dryRun, ok := cleanupMode(c)
	if !ok {
		return
	}
	rep, err := service.NewMaintenanceService(database.DB).CleanupAllPending(txCtx(c), dryRun)
	h.respondCleanup(c, rep, err)
}

// CleanupEverything lançamentos e pagamentos de empreitada com saldo, todas as obras
// @Summary Limpeza total de pendências
// @Tags Manutenção
// @Produce json
// @Security BearerAuth
// @Param confirmar query string false "EXCLUIR"
// @Param dry_run query bool false "Apenas simular"
// @Success 200 {object} service.CleanupReport
// @Router /limpar-tudo-pendente-global [delete]
func (h *MaintenanceHandler) CleanupEverything(c *gin.Context) {
	dryRun, ok := cleanupMode(c)
	if !ok {
		return
	}
	rep, err := service.NewMaintenanceService(database.DB).CleanupEverythingPending(txCtx(c), dryRun)
	h.respondCleanup(c, rep, err)
}

// Bootstrap cria tabelas ausentes e aplica os passos aditivos
// @Summary Bootstrap do schema
// @Tags Manutenção
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /manutencao/bootstrap [post]
func (h *MaintenanceHandler) Bootstrap(c *gin.Context) {
	if err := database.Bootstrap(database.DB.WithContext(txCtx(c))); err != nil {
		respondError(c, err, "falha no bootstrap do schema")
		return
	}
	Success(c, MessageResponse{Message: "schema atualizado"})
}

// RecreateTable apaga e recria uma tabela
// @Summary Recriar tabela
// @Description Todos os dados da tabela são perdidos. Exige confirmar=EXCLUIR.
// @Tags Manutenção
// @Produce json
// @Security BearerAuth
// @Param tabela path string true "Nome da tabela"
// @Param confirmar query string true "EXCLUIR"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /manutencao/tabelas/{tabela}/recriar [post]
func (h *MaintenanceHandler) RecreateTable(c *gin.Context) {
	name := c.Param("tabela")
	confirm := c.Query("confirmar") == service.ConfirmationToken
	err := database.RecreateTable(database.DB.WithContext(txCtx(c)), name, confirm)
	switch {
	case errors.Is(err, database.ErrConfirmationRequired), errors.Is(err, database.ErrUnknownTable):
		BadRequest(c, err.Error())
	case err != nil:
		respondError(c, err, "falha ao recriar tabela")
	default:
		Success(c, MessageResponse{Message: "tabela " + name + " recriada"})
	}
}
