package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/coinforge/gamestore/internal/core/ports"
)

type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type Notifier struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) ports.Notifier {
	return &Notifier{cfg: cfg, logger: logger}
}

func (n *Notifier) SendVerificationCode(ctx context.Context, email, nickname, code string) error {
	subject := "Verify your account"
	body := fmt.Sprintf("Hi %s,\r\n\r\nYour verification code is %s. It expires in 15 minutes.\r\n", nickname, code)

	msg := []byte("From: " + n.cfg.From + "\r\n" +
		"To: " + email + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{email}, msg); err != nil {
		n.logger.Warn("failed to send verification email", zap.String("to", email), zap.Error(err))
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
