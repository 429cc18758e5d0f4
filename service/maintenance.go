package service

import (
	"context"
	"log"
	"sort"

	"obras/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConfirmationToken valor exigido em ?confirmar= para limpezas em massa
const ConfirmationToken = "EXCLUIR"

// CleanupTotals contagens e somas de uma limpeza
type CleanupTotals struct {
	Entries  int             `json:"lancamentos"`
	Payments int             `json:"pagamentos"`
	Total    decimal.Decimal `json:"valor_total"`
	Paid     decimal.Decimal `json:"valor_pago"`
	Residual decimal.Decimal `json:"saldo"`
}

func (t *CleanupTotals) add(s models.Settlement, payment bool) {
	if payment {
		t.Payments++
	} else {
		t.Entries++
	}
	t.Total = t.Total.Add(s.Total)
	t.Paid = t.Paid.Add(s.Paid)
	t.Residual = t.Residual.Add(s.Total.Sub(s.Paid))
}

// ProjectCleanup detalhamento por obra
type ProjectCleanup struct {
	ProjectID   uint   `json:"obra_id"`
	ProjectName string `json:"obra_nome"`
	CleanupTotals
}

// CleanupReport resultado de uma limpeza (ou simulação)
type CleanupReport struct {
	DryRun   bool             `json:"simulacao"`
	Projects []ProjectCleanup `json:"obras"`
	Total    CleanupTotals    `json:"total"`
}

// pendingPayment parcela em aberto com a obra resolvida pela empreitada
type pendingPayment struct {
	ID        uint            `gorm:"column:id"`
	ProjectID uint            `gorm:"column:obra_id"`
	Total     decimal.Decimal `gorm:"column:valor"`
	Paid      decimal.Decimal `gorm:"column:valor_pago"`
}

// buildCleanupReport agrupa por obra, em ordem de id
func buildCleanupReport(entries []models.Entry, payments []pendingPayment, names map[uint]string, dryRun bool) CleanupReport {
	zero := CleanupTotals{Total: decimal.Zero, Paid: decimal.Zero, Residual: decimal.Zero}
	byProject := map[uint]*ProjectCleanup{}
	get := func(id uint) *ProjectCleanup {
		p, ok := byProject[id]
		if !ok {
			p = &ProjectCleanup{ProjectID: id, ProjectName: names[id], CleanupTotals: zero}
			byProject[id] = p
		}
		return p
	}

	rep := CleanupReport{DryRun: dryRun, Projects: []ProjectCleanup{}, Total: zero}
	for _, e := range entries {
		get(e.ProjectID).add(e.Settlement, false)
		rep.Total.add(e.Settlement, false)
	}
	for _, p := range payments {
		s := models.Settlement{Total: p.Total, Paid: p.Paid}
		get(p.ProjectID).add(s, true)
		rep.Total.add(s, true)
	}

	for _, p := range byProject {
		rep.Projects = append(rep.Projects, *p)
	}
	sort.Slice(rep.Projects, func(i, j int) bool {
		return rep.Projects[i].ProjectID < rep.Projects[j].ProjectID
	})
	return rep
}

// MaintenanceService limpezas em massa de saldos pendentes
type MaintenanceService struct {
	db *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// CleanupProjectPending apaga os lançamentos com saldo de uma obra
func (s *MaintenanceService) CleanupProjectPending(ctx context.Context, projectID uint, dryRun bool) (CleanupReport, error) {
	return s.cleanup(ctx, &projectID, false, dryRun)
}

// CleanupAllPending apaga os lançamentos com saldo de todas as obras
func (s *MaintenanceService) CleanupAllPending(ctx context.Context, dryRun bool) (CleanupReport, error) {
	return s.cleanup(ctx, nil, false, dryRun)
}

// CleanupEverythingPending lançamentos e parcelas de empreitada com saldo, todas as obras
func (s *MaintenanceService) CleanupEverythingPending(ctx context.Context, dryRun bool) (CleanupReport, error) {
	return s.cleanup(ctx, nil, true, dryRun)
}

func (s *MaintenanceService) cleanup(ctx context.Context, projectID *uint, withPayments, dryRun bool) (CleanupReport, error) {
	var rep CleanupReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entryQuery := tx.Where("valor_pago < valor")
		if projectID != nil {
			entryQuery = entryQuery.Where("obra_id = ?", *projectID)
		}
		var entries []models.Entry
		if err := entryQuery.Order("id").Find(&entries).Error; err != nil {
			return err
		}

		var payments []pendingPayment
		if withPayments {
			if err := tx.Table("pagamentos_empreitada AS p").
				Select("p.id, e.obra_id, p.valor, p.valor_pago").
				Joins("JOIN empreitadas e ON e.id = p.empreitada_id").
				Where("p.valor_pago < p.valor").
				Order("p.id").
				Scan(&payments).Error; err != nil {
				return err
			}
		}

		names, err := projectNames(tx, entries, payments)
		if err != nil {
			return err
		}
		rep = buildCleanupReport(entries, payments, names, dryRun)
		if dryRun {
			return nil
		}

		entryIDs := make([]uint, 0, len(entries))
		for _, e := range entries {
			entryIDs = append(entryIDs, e.ID)
		}
		if len(entryIDs) > 0 {
			if err := DeleteInvoicesFor(tx, models.OwnerEntry, entryIDs...); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", entryIDs).Delete(&models.Entry{}).Error; err != nil {
				return err
			}
		}

		paymentIDs := make([]uint, 0, len(payments))
		for _, p := range payments {
			paymentIDs = append(paymentIDs, p.ID)
		}
		if len(paymentIDs) > 0 {
			if err := DeleteInvoicesFor(tx, models.OwnerSubWorkPayment, paymentIDs...); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", paymentIDs).Delete(&models.SubWorkPayment{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CleanupReport{}, err
	}
	if !dryRun {
		log.Printf("limpeza de pendências: %d lançamentos, %d pagamentos, saldo %s",
			rep.Total.Entries, rep.Total.Payments, rep.Total.Residual.StringFixed(2))
	}
	return rep, nil
}

func projectNames(tx *gorm.DB, entries []models.Entry, payments []pendingPayment) (map[uint]string, error) {
	seen := map[uint]bool{}
	var ids []uint
	for _, e := range entries {
		if !seen[e.ProjectID] {
			seen[e.ProjectID] = true
			ids = append(ids, e.ProjectID)
		}
	}
	for _, p := range payments {
		if !seen[p.ProjectID] {
			seen[p.ProjectID] = true
			ids = append(ids, p.ProjectID)
		}
	}
	names := map[uint]string{}
	if len(ids) == 0 {
		return names, nil
	}
	var projects []models.Project
	if err := tx.Select("id", "nome").Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}
