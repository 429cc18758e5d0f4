package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AlertWindowDays horizonte dos alertas de compras próximas
const AlertWindowDays = 7

// DefaultPurchasePriority prioridade quando o cliente não informa
const DefaultPurchasePriority = 3

// PurchaseItem item do cronograma de compras
type PurchaseItem struct {
	ID              uint                `json:"id" gorm:"primaryKey"`
	ProjectID       uint                `json:"obra_id" gorm:"column:obra_id;index;not null"`
	Item            string              `json:"item" gorm:"column:item;size:150;not null"`
	Description     string              `json:"descricao" gorm:"column:descricao;type:text"`
	SuggestedVendor string              `json:"fornecedor_sugerido" gorm:"column:fornecedor_sugerido;size:150"`
	Estimate        decimal.Decimal     `json:"valor_estimado" gorm:"column:valor_estimado;type:decimal(14,2);not null;default:0"`
	PlannedDate     Date                `json:"data_prevista" gorm:"column:data_prevista;not null;index"`
	Status          PurchaseStatus      `json:"status" gorm:"column:status;size:20;not null;default:Pendente;index"`
	Category        string              `json:"categoria" gorm:"column:categoria;size:80"`
	Priority        int                 `json:"prioridade" gorm:"column:prioridade;not null;default:3"`
	Notes           string              `json:"observacoes" gorm:"column:observacoes;type:text"`
	EntryID         *uint               `json:"lancamento_id" gorm:"column:lancamento_id;index"`
	ActualDate      *Date               `json:"data_realizada" gorm:"column:data_realizada"`
	ActualAmount    decimal.NullDecimal `json:"valor_realizado" gorm:"column:valor_realizado;type:decimal(14,2)"`
	CreatedAt       time.Time           `json:"criado_em" gorm:"column:criado_em"`

	Entry *Entry `json:"-" gorm:"foreignKey:EntryID;constraint:OnDelete:SET NULL"`
}

func (PurchaseItem) TableName() string {
	return "cronograma_compras"
}

// Validate prioridade entre 1 e 5, estimativa não negativa
func (p *PurchaseItem) Validate() error {
	if p.Item == "" {
		return Invalid("item é obrigatório")
	}
	if p.PlannedDate.IsZero() {
		return Invalid("data_prevista é obrigatória")
	}
	if p.Priority < 1 || p.Priority > 5 {
		return Invalid("prioridade deve estar entre 1 e 5")
	}
	if p.Estimate.IsNegative() {
		return Invalid("valor_estimado não pode ser negativo")
	}
	if p.ActualAmount.Valid && p.ActualAmount.Decimal.IsNegative() {
		return Invalid("valor_realizado não pode ser negativo")
	}
	if err := checkCents(p.Estimate, "valor_estimado"); err != nil {
		return err
	}
	if p.ActualAmount.Valid {
		if err := checkCents(p.ActualAmount.Decimal, "valor_realizado"); err != nil {
			return err
		}
	}
	if p.Status == PurchaseDone && p.ActualDate == nil {
		return Invalid("compra realizada exige data_realizada")
	}
	return nil
}

// EffectiveStatus pendente com data prevista vencida aparece como Atrasada
func (p *PurchaseItem) EffectiveStatus(today Date) PurchaseStatus {
	if p.Status == PurchasePending && p.PlannedDate.Before(today) {
		return PurchaseLate
	}
	return p.Status
}

// MarkRealized conclui a compra hoje; sem valor informado usa a estimativa
func (p *PurchaseItem) MarkRealized(amount decimal.NullDecimal, today Date) error {
	if amount.Valid && amount.Decimal.IsNegative() {
		return Invalid("valor_realizado não pode ser negativo")
	}
	if amount.Valid {
		if err := checkCents(amount.Decimal, "valor_realizado"); err != nil {
			return err
		}
	}
	if !amount.Valid {
		amount = decimal.NewNullDecimal(p.Estimate)
	}
	d := today
	p.Status = PurchaseDone
	p.ActualDate = &d
	p.ActualAmount = amount
	return nil
}

// PurchaseAlerts compras próximas e atrasadas
type PurchaseAlerts struct {
	Upcoming []PurchaseItem `json:"proximas"`
	Overdue  []PurchaseItem `json:"atrasadas"`
}

// ClassifyAlerts separa pendentes com data em [today, today+7] e antes de today,
// ambas em ordem crescente de data prevista
func ClassifyAlerts(items []PurchaseItem, today Date) PurchaseAlerts {
	limit := today.AddDays(AlertWindowDays)
	alerts := PurchaseAlerts{Upcoming: []PurchaseItem{}, Overdue: []PurchaseItem{}}
	for _, it := range items {
		if it.Status != PurchasePending {
			continue
		}
		switch {
		case it.PlannedDate.Before(today):
			it.Status = PurchaseLate
			alerts.Overdue = append(alerts.Overdue, it)
		case !it.PlannedDate.After(limit):
			alerts.Upcoming = append(alerts.Upcoming, it)
		}
	}
	byDate := func(list []PurchaseItem) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].PlannedDate.Before(list[j].PlannedDate)
		})
	}
	byDate(alerts.Upcoming)
	byDate(alerts.Overdue)
	return alerts
}
