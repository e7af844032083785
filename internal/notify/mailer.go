package notify

import (
	"context"
	"fmt"
	"strings"

	mail "gopkg.in/mail.v2"

	"citizen-portal/internal/config"
	"citizen-portal/internal/model"
)

// Mailer sends the new-feedback notification to the configured admin
// recipients over SMTP. With no host or no recipients configured it
// reports the condition as an error and lets the caller decide what to
// do with it (the feedback service logs and discards).
type Mailer struct {
	cfg        config.SMTPConfig
	recipients []string
	dialer     *mail.Dialer
}

func NewMailer(cfg config.SMTPConfig, recipients []string) *Mailer {
	var dialer *mail.Dialer
	if cfg.Host != "" {
		dialer = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &Mailer{
		cfg:        cfg,
		recipients: recipients,
		dialer:     dialer,
	}
}

func (m *Mailer) NotifyNewFeedback(_ context.Context, data model.NotificationData) error {
	if m.dialer == nil {
		return fmt.Errorf("smtp transport is not configured")
	}
	if len(m.recipients) == 0 {
		return fmt.Errorf("no admin recipients configured")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from())
	msg.SetHeader("To", m.recipients...)
	msg.SetHeader("Subject", Subject(data))
	msg.SetBody("text/plain", Body(data))

	return m.dialer.DialAndSend(msg)
}

func (m *Mailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

func Subject(data model.NotificationData) string {
	return fmt.Sprintf("[Phản ánh mới] %s - %s", data.PriorityLabel, data.Title)
}

// Body mirrors the plain-text notification the admins expect: tracking
// code first, then submitter contact, classification and content.
func Body(data model.NotificationData) string {
	email := data.Email
	if email == "" {
		email = "Không có"
	}
	address := data.Address
	if address == "" {
		address = "Không có"
	}

	var b strings.Builder
	b.WriteString("Có phản ánh mới từ hệ thống:\n\n")
	fmt.Fprintf(&b, "Mã theo dõi: %s\n", data.TrackingCode)
	fmt.Fprintf(&b, "Người gửi: %s\n", data.DisplayName)
	fmt.Fprintf(&b, "Số điện thoại: %s\n", data.Phone)
	fmt.Fprintf(&b, "Email: %s\n\n", email)
	fmt.Fprintf(&b, "Danh mục: %s\n", data.CategoryName)
	fmt.Fprintf(&b, "Mức độ: %s\n\n", data.PriorityLabel)
	fmt.Fprintf(&b, "Tiêu đề: %s\n", data.Title)
	fmt.Fprintf(&b, "Nội dung:\n%s\n\n", data.Content)
	fmt.Fprintf(&b, "Địa chỉ: %s\n\n", address)
	fmt.Fprintf(&b, "Số hình ảnh đính kèm: %d\n\n", data.ImageCount)
	fmt.Fprintf(&b, "Thời gian: %s\n\n", data.SubmittedAt.Format("02/01/2006 15:04"))
	b.WriteString("---\nVui lòng đăng nhập vào hệ thống để xem chi tiết và xử lý.\n")
	return b.String()
}
