package service

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"
)

// SendVerificationEmail 发送注册验证邮件
// SMTP 未配置时静默跳过(开发环境不强制邮件服务)
func SendVerificationEmail(toEmail, verifyURL string) error {
	cfg := config.Get()
	if cfg.SMTP.Host == "" {
		return nil
	}

	auth := smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)

	subject := "验证您的信箱 - YiyuanBlog"
	body := fmt.Sprintf(`
		<h1>欢迎加入 YiyuanBlog</h1>
		<p>请点击以下链接验证您的信箱: <a href="%s">%s</a></p>
		<p>链接一小时内有效。</p>
	`, verifyURL, verifyURL)

	fromHeader, fromAddr, err := parseAddressForHeader(cfg.SMTP.From)
	if err != nil {
		return err
	}
	toHeader, toAddr, err := parseAddressForHeader(toEmail)
	if err != nil {
		return err
	}

	msg, err := buildEmailMessage(fromHeader, toHeader, subject, body)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)

	// 如果配置了 SSL (通常是端口 465)，需要使用 tls 连接
	if cfg.SMTP.SSL {
		return sendMailWithSSL(addr, auth, fromAddr, []string{toAddr}, msg)
	}

	// 默认使用 STARTTLS (通常是端口 587 或 25)
	return smtp.SendMail(addr, auth, fromAddr, []string{toAddr}, msg)
}

// parseAddressForHeader 解析邮箱地址, 返回编码后的头部形式和裸地址
func parseAddressForHeader(address string) (string, string, error) {
	if strings.TrimSpace(address) == "" {
		return "", "", errors.New("邮箱地址为空")
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return "", "", fmt.Errorf("邮箱地址非法: %w", err)
	}
	return parsed.String(), parsed.Address, nil
}

func buildEmailMessage(from, to, subject, htmlBody string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String()), nil
}

// sendMailWithSSL 使用 TLS 直连发送(端口 465)
func sendMailWithSSL(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host := addr
	if idx := strings.LastIndex(addr, ":"); idx > 0 {
		host = addr[:idx]
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
