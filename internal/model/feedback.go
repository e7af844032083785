package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousName is the display name substituted whenever a submitter
// opts into anonymity.
const AnonymousName = "Ẩn danh"

// UnknownCategoryName is shown when a feedback has no category left
// (categories are SET NULL on delete).
const UnknownCategoryName = "Không xác định"

const TrackingCodeLength = 12

type FeedbackStatus string

const (
	FeedbackStatusPending    FeedbackStatus = "pending"
	FeedbackStatusProcessing FeedbackStatus = "processing"
	FeedbackStatusResolved   FeedbackStatus = "resolved"
	FeedbackStatusRejected   FeedbackStatus = "rejected"
)

var feedbackStatusLabels = map[FeedbackStatus]string{
	FeedbackStatusPending:    "Đang chờ xử lý",
	FeedbackStatusProcessing: "Đang xử lý",
	FeedbackStatusResolved:   "Đã giải quyết",
	FeedbackStatusRejected:   "Từ chối",
}

func (s FeedbackStatus) Valid() bool {
	_, ok := feedbackStatusLabels[s]
	return ok
}

func (s FeedbackStatus) Label() string {
	if label, ok := feedbackStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

var priorityLabels = map[int]string{
	1: "Thấp",
	2: "Trung bình",
	3: "Cao",
	4: "Khẩn cấp",
}

func ValidPriority(priority int) bool {
	_, ok := priorityLabels[priority]
	return ok
}

func PriorityLabel(priority int) string {
	if label, ok := priorityLabels[priority]; ok {
		return label
	}
	return "Không xác định"
}

type Category struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	PriorityLevel int       `gorm:"not null;default:1" json:"priority_level"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Category) TableName() string {
	return "feedback_categories"
}

type Feedback struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TrackingCode string         `gorm:"type:char(12);not null;uniqueIndex" json:"tracking_code"`
	Name         string         `gorm:"type:varchar(200);not null;default:'Ẩn danh'" json:"name"`
	IsAnonymous  bool           `gorm:"not null;default:false" json:"is_anonymous"`
	Phone        string         `gorm:"type:varchar(15);not null" json:"phone"`
	Email        *string        `gorm:"type:varchar(254)" json:"email"`
	CategoryID   *uint          `gorm:"constraint:OnDelete:SET NULL" json:"category_id"`
	Priority     int            `gorm:"not null;default:2" json:"priority"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Status       FeedbackStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Address      string         `gorm:"type:varchar(500)" json:"address"`
	Latitude     *float64       `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude    *float64       `gorm:"type:decimal(9,6)" json:"longitude"`
	AdminNote    string         `gorm:"type:text" json:"admin_note"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index:idx_feedbacks_created_at,sort:desc" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	ResolvedAt   *time.Time     `json:"resolved_at"`

	Category *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images   []FeedbackImage `gorm:"foreignKey:FeedbackID" json:"images"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

// BeforeSave keeps the invariants the store must never violate: the
// tracking code is assigned once, anonymous submissions always store the
// placeholder name, and resolved_at is stamped on the first transition to
// resolved and never afterwards.
func (f *Feedback) BeforeSave(tx *gorm.DB) error {
	if f.TrackingCode == "" {
		f.TrackingCode = GenerateTrackingCode()
	}
	if f.IsAnonymous {
		f.Name = AnonymousName
	}
	if f.Name == "" {
		f.Name = AnonymousName
	}
	if f.Status == "" {
		f.Status = FeedbackStatusPending
	}
	if f.Status == FeedbackStatusResolved && f.ResolvedAt == nil {
		now := time.Now()
		f.ResolvedAt = &now
	}
	return nil
}

// DisplayName hides the stored name for anonymous submissions.
func (f *Feedback) DisplayName() string {
	if f.IsAnonymous {
		return AnonymousName
	}
	return f.Name
}

func (f *Feedback) CategoryName() string {
	if f.Category != nil {
		return f.Category.Name
	}
	return UnknownCategoryName
}

// GenerateTrackingCode derives a human-shareable receipt code from a
// random 128-bit value: hex, truncated to 12 characters, upper-cased.
// Uniqueness is still enforced by the store.
func GenerateTrackingCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:TrackingCodeLength])
}

type FeedbackImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FeedbackID uint      `gorm:"not null;index" json:"feedback_id"`
	FilePath   string    `gorm:"type:text;not null" json:"file_path"`
	Caption    string    `gorm:"type:varchar(200)" json:"caption"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (FeedbackImage) TableName() string {
	return "feedback_images"
}
