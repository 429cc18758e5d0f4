package models

import "strings"

// EntryStatus situação de um lançamento ou pagamento
type EntryStatus string

const (
	StatusToPay EntryStatus = "A Pagar"
	StatusPaid  EntryStatus = "Pago"
)

// ParseEntryStatus rejeita valores desconhecidos. Vazio vale A Pagar.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch strings.TrimSpace(s) {
	case "", string(StatusToPay):
		return StatusToPay, nil
	case string(StatusPaid):
		return StatusPaid, nil
	}
	return "", Invalid("status inválido: %q", s)
}

// Role papel do usuário
type Role string

const (
	RoleMaster  Role = "master"
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleMaster, RoleAdmin, RoleRegular:
		return r, nil
	}
	return "", Invalid("papel inválido: %q", s)
}

// QuoteStatus situação de um orçamento
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "Pendente"
	QuoteApproved QuoteStatus = "Aprovado"
	QuoteRejected QuoteStatus = "Rejeitado"
)

func ParseQuoteStatus(s string) (QuoteStatus, error) {
	switch st := QuoteStatus(strings.TrimSpace(s)); st {
	case "":
		return QuotePending, nil
	case QuotePending, QuoteApproved, QuoteRejected:
		return st, nil
	}
	return "", Invalid("status de orçamento inválido: %q", s)
}

// PurchaseStatus situação de um item do cronograma de compras
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "Pendente"
	PurchaseDone      PurchaseStatus = "Realizada"
	PurchaseLate      PurchaseStatus = "Atrasada"
	PurchaseCancelled PurchaseStatus = "Cancelada"
)

func ParsePurchaseStatus(s string) (PurchaseStatus, error) {
	switch st := PurchaseStatus(strings.TrimSpace(s)); st {
	case "":
		return PurchasePending, nil
	case PurchasePending, PurchaseDone, PurchaseLate, PurchaseCancelled:
		return st, nil
	}
	return "", Invalid("status de compra inválido: %q", s)
}

// OwnerKind dono de uma nota fiscal
type OwnerKind string

const (
	OwnerEntry          OwnerKind = "lancamento"
	OwnerSubWork        OwnerKind = "empreitada"
	OwnerSubWorkPayment OwnerKind = "pagamento"
)

func ParseOwnerKind(s string) (OwnerKind, error) {
	switch k := OwnerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case OwnerEntry, OwnerSubWork, OwnerSubWorkPayment:
		return k, nil
	}
	return "", Invalid("tipo de dono inválido: %q", s)
}
