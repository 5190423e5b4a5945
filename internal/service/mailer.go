package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pensao-tracker/internal/logger"
)

// Mailer delivers password reset links. Real delivery (SMTP, SES) plugs in
// behind this interface.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error
}

// LogMailer writes the message it would send to the log instead of sending it.
type LogMailer struct {
	validFor time.Duration
}

// NewLogMailer creates a LogMailer. validFor is the reset token lifetime
// quoted in the message.
func NewLogMailer(validFor time.Duration) *LogMailer {
	return &LogMailer{validFor: validFor}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, toEmail, toName, resetLink string) error {
	var b strings.Builder
	b.WriteString("--- SIMULAÇÃO DE E-MAIL DE RECUPERAÇÃO DE PALAVRA-PASSE ---\n")
	fmt.Fprintf(&b, "Para: %s\n", toEmail)
	b.WriteString("Assunto: Redefinição de Palavra-Passe\n")
	fmt.Fprintf(&b, "Corpo: Olá %s,\n\n", toName)
	b.WriteString("Você solicitou a redefinição da sua palavra-passe. Clique no link abaixo para redefinir:\n")
	fmt.Fprintf(&b, "%s\n\n", resetLink)
	fmt.Fprintf(&b, "Este link é válido por %s.\n\n", validityText(m.validFor))
	b.WriteString("Se você não solicitou isso, por favor, ignore este e-mail.\n")
	b.WriteString("--- FIM DA SIMULAÇÃO ---")

	logger.Info("%s", b.String())
	return nil
}

// validityText renders a lifetime in Portuguese, in hours when it is a whole
// number of hours and in minutes otherwise.
func validityText(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hora", "horas")
	}
	return plural(int(d/time.Minute), "minuto", "minutos")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
