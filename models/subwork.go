package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubWork empreitada (serviço contratado) com cronograma de pagamentos
type SubWork struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ProjectID     uint            `json:"obra_id" gorm:"column:obra_id;index;not null"`
	Name          string          `json:"nome" gorm:"column:nome;size:150;not null"`
	Responsible   string          `json:"responsavel" gorm:"column:responsavel;size:150"`
	LaborTotal    decimal.Decimal `json:"valor_global_mao_de_obra" gorm:"column:valor_global_mao_de_obra;type:decimal(14,2);not null;default:0"`
	MaterialTotal decimal.Decimal `json:"valor_global_material" gorm:"column:valor_global_material;type:decimal(14,2);not null;default:0"`
	PaymentKey    *string         `json:"pix" gorm:"column:pix;size:120"`

	Payments []SubWorkPayment `json:"pagamentos" gorm:"foreignKey:SubWorkID;constraint:OnDelete:CASCADE"`
	Entries  []Entry          `json:"-" gorm:"foreignKey:SubWorkID;constraint:OnDelete:SET NULL"`
}

func (SubWork) TableName() string {
	return "empreitadas"
}

// Committed mão de obra + material
func (s *SubWork) Committed() decimal.Decimal {
	return s.LaborTotal.Add(s.MaterialTotal)
}

// PaidTotal soma do valor pago das parcelas
func (s *SubWork) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Payments {
		total = total.Add(s.Payments[i].Paid)
	}
	return total
}

// Remaining compromisso restante
func (s *SubWork) Remaining() decimal.Decimal {
	return s.Committed().Sub(s.PaidTotal())
}

// Validate valores globais não negativos
func (s *SubWork) Validate() error {
	if s.Name == "" {
		return Invalid("nome da empreitada é obrigatório")
	}
	if s.LaborTotal.IsNegative() || s.MaterialTotal.IsNegative() {
		return Invalid("valores globais não podem ser negativos")
	}
	if err := checkCents(s.LaborTotal, "valor_global_mao_de_obra"); err != nil {
		return err
	}
	return checkCents(s.MaterialTotal, "valor_global_material")
}

func (s *SubWork) BeforeSave(tx *gorm.DB) error {
	return s.Validate()
}

// SubWorkView empreitada com totais calculados
type SubWorkView struct {
	SubWork
	PaidSum decimal.Decimal `json:"total_pago"`
	Balance decimal.Decimal `json:"saldo"`
}

// NewSubWorkView calcula os totais de s
func NewSubWorkView(s SubWork) SubWorkView {
	if s.Payments == nil {
		s.Payments = []SubWorkPayment{}
	}
	return SubWorkView{SubWork: s, PaidSum: s.PaidTotal(), Balance: s.Remaining()}
}

// SubWorkPayment parcela (possivelmente parcial) de uma empreitada
type SubWorkPayment struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SubWorkID uint   `json:"empreitada_id" gorm:"column:empreitada_id;index;not null"`
	Kind      string `json:"tipo_pagamento" gorm:"column:tipo_pagamento;size:80;not null"`
	Settlement
	Date     Date    `json:"data" gorm:"column:data;not null"`
	Priority *int    `json:"prioridade" gorm:"column:prioridade"`
	Note     *string `json:"observacao" gorm:"column:observacao;size:255"`
}

func (SubWorkPayment) TableName() string {
	return "pagamentos_empreitada"
}

func (p *SubWorkPayment) BeforeSave(tx *gorm.DB) error {
	return p.Settlement.Normalize()
}
