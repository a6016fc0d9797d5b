package main

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeStatusChange: {
		file:    "status_change_email.html",
		subject: "シフトボード - 出勤可否の変更",
	},
	domain.MailTypeLocationChange: {
		file:    "location_change_email.html",
		subject: "シフトボード - 配置先の変更",
	},
	domain.MailTypeRateChange: {
		file:    "rate_change_email.html",
		subject: "シフトボード - 単価の変更",
	},
}

var templateFuncs = template.FuncMap{
	"statusLabel": func(s string) string {
		switch domain.Status(s) {
		case domain.StatusAvailable:
			return "○ 出勤可"
		case domain.StatusUnavailable:
			return "× 出勤不可"
		default:
			return "未定"
		}
	},
}

// buildMessage 根据邮件类型选择模板，生成待发送的邮件
func buildMessage(from string, templatesDir string, m domain.MailMessage) (*mail.Msg, error) {
	t, ok := mailTemplates[m.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型: %s", m.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	tmpl, err := template.New(t.file).Funcs(templateFuncs).ParseFiles(filepath.Join(templatesDir, t.file))
	if err != nil {
		return nil, fmt.Errorf("无法解析邮件模板: %w", err)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, m.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	msg.Subject(t.subject)
	msg.SetMessageIDWithValue(m.ID)

	return msg, nil
}
