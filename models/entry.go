package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry lançamento financeiro de uma obra
type Entry struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProjectID   uint   `json:"obra_id" gorm:"column:obra_id;index;not null"`
	Category    string `json:"tipo" gorm:"column:tipo;size:80;not null;index"`
	Description string `json:"descricao" gorm:"column:descricao;size:255;not null"`
	Settlement
	Date       Date      `json:"data" gorm:"column:data;not null;index"`
	PaymentKey *string   `json:"pix" gorm:"column:pix;size:120"`
	Priority   *int      `json:"prioridade" gorm:"column:prioridade"`
	Vendor     *string   `json:"fornecedor" gorm:"column:fornecedor;size:150"`
	SubWorkID  *uint     `json:"servico_id" gorm:"column:servico_id;index"`
	CreatedAt  time.Time `json:"-" gorm:"column:criado_em"`
	UpdatedAt  time.Time `json:"-" gorm:"column:atualizado_em"`
}

func (Entry) TableName() string {
	return "lancamentos"
}

// BeforeSave mantém o status coerente com pago/total em toda escrita
func (e *Entry) BeforeSave(tx *gorm.DB) error {
	return e.Settlement.Normalize()
}

// PendingEntry lançamento com saldo em aberto
type PendingEntry struct {
	Entry
	Balance decimal.Decimal `json:"saldo"`
}

// NewPendingEntry anexa o saldo calculado
func NewPendingEntry(e Entry) PendingEntry {
	return PendingEntry{Entry: e, Balance: e.Settlement.Residual()}
}
