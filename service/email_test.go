package service

import (
	"testing"
	"time"

	"obras/config"
	"obras/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAlertsEmailBody(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{}, nil)
	alerts := models.PurchaseAlerts{
		Overdue: []models.PurchaseItem{
			{Item: "Cimento <CP-II>", PlannedDate: models.NewDate(2025, time.March, 5), Estimate: decimal.NewFromInt(1200), Priority: 1},
		},
	}
	body := s.generateAlertsEmailBody(models.Project{Name: "Casa A"}, alerts)

	assert.Contains(t, body, "Casa A")
	assert.Contains(t, body, "Compras atrasadas (1)")
	assert.Contains(t, body, "05/03/2025")
	assert.Contains(t, body, "R$ 1.200,00")
	assert.Contains(t, body, "Cimento &lt;CP-II&gt;")
	assert.Contains(t, body, "Próximos 7 dias (0)")
	assert.Contains(t, body, "Nenhum item")
	assert.Contains(t, body, "width: 100%;")
}

func TestSendPurchaseAlerts_Guards(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false}, []string{"a@b.com"})
	assert.ErrorIs(t, disabled.SendPurchaseAlerts(models.Project{}, models.PurchaseAlerts{}), ErrEmailDisabled)

	noRecipients := NewEmailService(&config.EmailConfig{Enabled: true}, nil)
	assert.ErrorIs(t, noRecipients.SendPurchaseAlerts(models.Project{}, models.PurchaseAlerts{}), ErrNoRecipients)
}
