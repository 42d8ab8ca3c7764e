package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/Miracle004/Lumo/config"
	"github.com/Miracle004/Lumo/internal/common"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 发送协作邀请等通知邮件
// 所有发送都是异步尽力而为的，失败只记日志，绝不阻塞触发它的业务事务
type EmailService struct {
	smtpHost    string
	smtpPort    int
	username    string
	password    string
	frontendURL string
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:    config.AppConfig.SMTPHost,
		smtpPort:    config.AppConfig.SMTPPort,
		username:    config.AppConfig.SMTPUsername,
		password:    config.AppConfig.SMTPPassword,
		frontendURL: config.AppConfig.FrontendURL,
	}
}

// SendInviteEmail 给受邀协作者发邀请邮件
func (s *EmailService) SendInviteEmail(to, inviterName, postTitle, postID string) {
	link := fmt.Sprintf("%s/write/%s", s.frontendURL, postID)
	subject := fmt.Sprintf("%s invited you to collaborate on \"%s\"", inviterName, postTitle)
	body := fmt.Sprintf(`
	<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>You're invited to collaborate!</h2>
		<p><strong>%s</strong> has invited you to edit their story <strong>"%s"</strong> on Lumo.</p>
		<p style="margin: 24px 0;">
			<a href="%s" style="padding: 12px 24px; background-color: #1a1a1a; color: #fff; text-decoration: none; border-radius: 4px;">Open the draft</a>
		</p>
		<p style="color: #777; font-size: 0.8em;">此邮件由系统自动发送，请勿直接回复。</p>
	</div>`, inviterName, postTitle, link)

	s.sendAsync(to, subject, body)
}

// SendWelcomeEmail 注册成功后的欢迎邮件
func (s *EmailService) SendWelcomeEmail(to, username string) {
	subject := "Welcome to Lumo"
	body := fmt.Sprintf(`
	<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Welcome, %s!</h2>
		<p>Your Lumo account is ready. Start writing your first story:</p>
		<p><a href="%s/write">%s/write</a></p>
	</div>`, username, s.frontendURL, s.frontendURL)

	s.sendAsync(to, subject, body)
}

func (s *EmailService) sendAsync(to, subject, body string) {
	go func() {
		err := common.WithRetry(func() error {
			return s.send(to, subject, body)
		}, 3)
		if err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) send(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
