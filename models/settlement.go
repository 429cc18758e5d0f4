package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true
}

// Settlement valor total, valor pago e status derivado.
// Compartilhado por lançamentos e pagamentos de empreitada.
type Settlement struct {
	Total  decimal.Decimal `json:"valor" gorm:"column:valor;type:decimal(14,2);not null"`
	Paid   decimal.Decimal `json:"valor_pago" gorm:"column:valor_pago;type:decimal(14,2);not null;default:0"`
	Status EntryStatus     `json:"status" gorm:"column:status;size:20;not null;index"`
}

// DeriveStatus Pago se e somente se paid >= total
func DeriveStatus(total, paid decimal.Decimal) EntryStatus {
	if paid.GreaterThanOrEqual(total) {
		return StatusPaid
	}
	return StatusToPay
}

// checkCents colunas monetárias guardam duas casas decimais
func checkCents(d decimal.Decimal, field string) error {
	if !d.Equal(d.Round(2)) {
		return Invalid("%s deve ter no máximo duas casas decimais", field)
	}
	return nil
}

// Residual saldo a pagar
func (s *Settlement) Residual() decimal.Decimal {
	r := s.Total.Sub(s.Paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// HasResidual ainda existe saldo em aberto
func (s *Settlement) HasResidual() bool {
	return s.Total.Sub(s.Paid).IsPositive()
}

// Normalize valida 0 <= pago <= total e recalcula o status
func (s *Settlement) Normalize() error {
	if s.Total.IsNegative() {
		return Invalid("valor não pode ser negativo")
	}
	if s.Paid.IsNegative() {
		return Invalid("valor pago não pode ser negativo")
	}
	if err := checkCents(s.Total, "valor"); err != nil {
		return err
	}
	if err := checkCents(s.Paid, "valor pago"); err != nil {
		return err
	}
	if s.Paid.GreaterThan(s.Total) {
		return Invalid("valor pago (%s) maior que o valor total (%s)", s.Paid.StringFixed(2), s.Total.StringFixed(2))
	}
	s.Status = DeriveStatus(s.Total, s.Paid)
	return nil
}

// Apply registra um pagamento parcial
func (s *Settlement) Apply(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Invalid("o valor do pagamento deve ser maior que zero")
	}
	if err := checkCents(amount, "valor do pagamento"); err != nil {
		return err
	}
	if s.Paid.Add(amount).GreaterThan(s.Total) {
		return Invalid("pagamento de %s excede o saldo de %s", amount.StringFixed(2), s.Residual().StringFixed(2))
	}
	s.Paid = s.Paid.Add(amount)
	return s.Normalize()
}

// SettleFully quita o saldo
func (s *Settlement) SettleFully() {
	s.Paid = s.Total
	s.Status = StatusPaid
}

// NewSettlement monta a partir do payload de criação; status Pago quita na hora
func NewSettlement(total decimal.Decimal, paid decimal.NullDecimal, status EntryStatus) (Settlement, error) {
	if !total.IsPositive() {
		return Settlement{}, Invalid("valor deve ser maior que zero")
	}
	s := Settlement{Total: total}
	if paid.Valid {
		s.Paid = paid.Decimal
	}
	if status == StatusPaid {
		s.Paid = total
	}
	return s, s.Normalize()
}
