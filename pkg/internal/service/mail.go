package service

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/yeisme/tablevault/pkg/configs"
	"github.com/yeisme/tablevault/pkg/log"
)

// MailService 通过 SMTP 发送验证邮件与密码重置邮件.
// smtp.enabled 为 false 时所有发送都是空操作.
type MailService struct {
	cfg *configs.SMTPConfig
}

// NewMailService 从全局配置组装 MailService.
func NewMailService() *MailService {
	return &MailService{cfg: &configs.GetConfig().SMTP}
}

// SendVerification 发送邮箱验证邮件.
func (s *MailService) SendVerification(to, token string) error {
	body := fmt.Sprintf(
		"Welcome to tablevault!\n\nUse this token to verify your email address:\n\n%s\n\nThe token expires soon, verify promptly.",
		token,
	)

	return s.send(to, "Verify your tablevault account", body)
}

// SendPasswordReset 发送密码重置邮件.
func (s *MailService) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your tablevault account.\n\nUse this token to set a new password:\n\n%s\n\nIf you did not request this, ignore this mail.",
		token,
	)

	return s.send(to, "Reset your tablevault password", body)
}

func (s *MailService) send(to, subject, body string) error {
	if !s.cfg.Enabled {
		log.Logger().Debug().Str("to", to).Str("subject", subject).
			Msg("smtp disabled, mail not sent")

		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
