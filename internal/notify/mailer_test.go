package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizen-portal/internal/config"
	"citizen-portal/internal/model"
)

func sampleData() model.NotificationData {
	return model.NotificationData{
		TrackingCode:  "A1B2C3D4E5F6",
		DisplayName:   "Ẩn danh",
		Phone:         "0901234567",
		CategoryName:  "Hạ tầng đô thị",
		PriorityLabel: "Cao",
		Title:         "Đèn đường hỏng",
		Content:       "Đèn đường trước số nhà 12 không sáng.",
		ImageCount:    2,
		SubmittedAt:   time.Date(2025, 8, 30, 14, 45, 0, 0, time.UTC),
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "[Phản ánh mới] Cao - Đèn đường hỏng", Subject(sampleData()))
}

func TestBodyContent(t *testing.T) {
	body := Body(sampleData())

	assert.Contains(t, body, "Mã theo dõi: A1B2C3D4E5F6")
	assert.Contains(t, body, "Người gửi: Ẩn danh")
	assert.Contains(t, body, "Số điện thoại: 0901234567")
	assert.Contains(t, body, "Danh mục: Hạ tầng đô thị")
	assert.Contains(t, body, "Số hình ảnh đính kèm: 2")
	assert.Contains(t, body, "Thời gian: 30/08/2025 14:45")

	// Missing optional fields render the explicit placeholder.
	assert.Contains(t, body, "Email: Không có")
	assert.Contains(t, body, "Địa chỉ: Không có")
}

func TestNotifyWithoutTransport(t *testing.T) {
	mailer := NewMailer(config.SMTPConfig{}, []string{"admin@example.gov.vn"})
	err := mailer.NotifyNewFeedback(context.Background(), sampleData())
	require.Error(t, err)
}

func TestNotifyWithoutRecipients(t *testing.T) {
	mailer := NewMailer(config.SMTPConfig{Host: "smtp.example.gov.vn", Port: 587}, nil)
	err := mailer.NotifyNewFeedback(context.Background(), sampleData())
	require.Error(t, err)
}
