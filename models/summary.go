package models

import "github.com/shopspring/decimal"

// Summary indicadores financeiros de uma obra
type Summary struct {
	TotalCommitted   decimal.Decimal            `json:"total_committed"`
	TotalPaid        decimal.Decimal            `json:"total_paid"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	ByCategory       map[string]decimal.Decimal `json:"by_category"`
	ByMonth          map[string]decimal.Decimal `json:"by_month"`
}

// BuildSummary agrega lançamentos e empreitadas (com parcelas carregadas).
//
//	comprometido = Σ lançamento.valor + Σ (mão de obra + material)
//	pago         = Σ lançamento.valor_pago + Σ parcela.valor_pago
//	em aberto    = comprometido - pago
//
// Categoria e mês (MM/AAAA) agrupam apenas o valor dos lançamentos.
func BuildSummary(entries []Entry, subWorks []SubWork) Summary {
	s := Summary{
		TotalCommitted:   decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
		ByCategory:       map[string]decimal.Decimal{},
		ByMonth:          map[string]decimal.Decimal{},
	}

	for _, e := range entries {
		s.TotalCommitted = s.TotalCommitted.Add(e.Total)
		s.TotalPaid = s.TotalPaid.Add(e.Paid)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Total)
		if !e.Date.IsZero() {
			key := e.Date.MonthKey()
			s.ByMonth[key] = s.ByMonth[key].Add(e.Total)
		}
	}

	for i := range subWorks {
		s.TotalCommitted = s.TotalCommitted.Add(subWorks[i].Committed())
		s.TotalPaid = s.TotalPaid.Add(subWorks[i].PaidTotal())
	}

	s.TotalOutstanding = s.TotalCommitted.Sub(s.TotalPaid)
	return s
}

// ProjectDetail resposta de GET /obras/:id
type ProjectDetail struct {
	Project  Project       `json:"obra"`
	Entries  []Entry       `json:"lancamentos"`
	SubWorks []SubWorkView `json:"empreitadas"`
	Summary  Summary       `json:"sumarios"`
}
