package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote orçamento de fornecedor
type Quote struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProjectID   uint            `json:"obra_id" gorm:"column:obra_id;index;not null"`
	Description string          `json:"descricao" gorm:"column:descricao;size:255;not null"`
	Vendor      string          `json:"fornecedor" gorm:"column:fornecedor;size:150"`
	Amount      decimal.Decimal `json:"valor" gorm:"column:valor;type:decimal(14,2);not null"`
	Kind        string          `json:"tipo" gorm:"column:tipo;size:80;not null"`
	Status      QuoteStatus     `json:"status" gorm:"column:status;size:20;not null;default:Pendente"`
	Note        string          `json:"observacoes" gorm:"column:observacoes;type:text"`
	EntryID     *uint           `json:"lancamento_id" gorm:"column:lancamento_id;index"`
	CreatedAt   time.Time       `json:"data_criacao" gorm:"column:data_criacao"`

	Entry *Entry `json:"-" gorm:"foreignKey:EntryID;constraint:OnDelete:SET NULL"`
}

func (Quote) TableName() string {
	return "orcamentos"
}

// Validate valor não negativo e descrição presente
func (q *Quote) Validate() error {
	if q.Description == "" {
		return Invalid("descrição do orçamento é obrigatória")
	}
	if q.Kind == "" {
		return Invalid("tipo do orçamento é obrigatório")
	}
	if q.Amount.IsNegative() {
		return Invalid("valor do orçamento não pode ser negativo")
	}
	return checkCents(q.Amount, "valor do orçamento")
}

// ToEntry lançamento gerado pela aprovação
func (q *Quote) ToEntry(date Date) Entry {
	desc := q.Description
	var vendor *string
	if q.Vendor != "" {
		v := q.Vendor
		vendor = &v
	}
	return Entry{
		ProjectID:   q.ProjectID,
		Category:    q.Kind,
		Description: desc,
		Settlement:  Settlement{Total: q.Amount},
		Date:        date,
		Vendor:      vendor,
	}
}
