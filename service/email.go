package service

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"obras/config"
	"obras/models"
	"obras/report"

	"gopkg.in/gomail.v2"
)

var (
	ErrEmailDisabled = errors.New("envio de e-mail desabilitado, configure email.enabled=true")
	ErrNoRecipients  = errors.New("nenhum destinatário configurado para alertas")
)

// AlertNotifier envia o resumo de alertas de compras de uma obra
type AlertNotifier interface {
	SendPurchaseAlerts(project models.Project, alerts models.PurchaseAlerts) error
}

// EmailService envio via SMTP
type EmailService struct {
	cfg        *config.EmailConfig
	recipients []string
}

// NewEmailService cria o serviço de e-mail
func NewEmailService(cfg *config.EmailConfig, recipients []string) *EmailService {
	return &EmailService{cfg: cfg, recipients: recipients}
}

// SendPurchaseAlerts envia compras próximas e atrasadas aos destinatários configurados
func (s *EmailService) SendPurchaseAlerts(project models.Project, alerts models.PurchaseAlerts) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if len(s.recipients) == 0 {
		return ErrNoRecipients
	}

	subject := fmt.Sprintf("[Obras] Alertas de compras - %s", project.Name)
	body := s.generateAlertsEmailBody(project, alerts)
	return s.sendEmail(s.recipients, subject, body)
}

func alertRows(items []models.PurchaseItem) string {
	if len(items) == 0 {
		return `<tr><td colspan="4" style="color:#6c757d;">Nenhum item</td></tr>`
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>",
			it.PlannedDate.BR(),
			html.EscapeString(it.Item),
			report.FormatBRL(it.Estimate),
			it.Priority,
		)
	}
	return b.String()
}

// generateAlertsEmailBody corpo HTML do resumo
func (s *EmailService) generateAlertsEmailBody(project models.Project, alerts models.PurchaseAlerts) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 640px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #1d4ed8; color: white; padding: 24px; text-align: center; }
        .content { padding: 24px 30px; }
        table { width: 100%%; border-collapse: collapse; margin-bottom: 24px; }
        th, td { border: 1px solid #ddd; padding: 6px 8px; font-size: 13px; text-align: left; }
        th { background: #f1f5f9; }
        h3.late { color: #b91c1c; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>%s</h2></div>
        <div class="content">
            <h3 class="late">Compras atrasadas (%d)</h3>
            <table><tr><th>Data prevista</th><th>Item</th><th>Estimativa</th><th>Prioridade</th></tr>%s</table>
            <h3>Próximos %d dias (%d)</h3>
            <table><tr><th>Data prevista</th><th>Item</th><th>Estimativa</th><th>Prioridade</th></tr>%s</table>
        </div>
        <div class="footer">Mensagem automática, não responda.</div>
    </div>
</body>
</html>
`, html.EscapeString(project.Name),
		len(alerts.Overdue), alertRows(alerts.Overdue),
		models.AlertWindowDays, len(alerts.Upcoming), alertRows(alerts.Upcoming))
}

// sendEmail envia a mensagem
func (s *EmailService) sendEmail(to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("falha ao enviar e-mail: %w", err)
	}

	return nil
}
