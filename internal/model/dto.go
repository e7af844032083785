package model

import "time"

// FeedbackRecord is the read shape for a feedback row: the entity plus
// the derived display fields the caller would otherwise recompute.
type FeedbackRecord struct {
	Feedback      Feedback `json:"feedback"`
	DisplayName   string   `json:"display_name"`
	CategoryName  string   `json:"category_name"`
	PriorityLabel string   `json:"priority_label"`
	StatusLabel   string   `json:"status_label"`
}

func NewFeedbackRecord(f Feedback) FeedbackRecord {
	return FeedbackRecord{
		Feedback:      f,
		DisplayName:   f.DisplayName(),
		CategoryName:  f.CategoryName(),
		PriorityLabel: PriorityLabel(f.Priority),
		StatusLabel:   f.Status.Label(),
	}
}

// ServiceDetail carries a catalog entry together with the line-item lists
// split out of its newline-delimited text fields.
type ServiceDetail struct {
	Service               PublicService `json:"service"`
	JurisdictionLabel     string        `json:"jurisdiction_label"`
	ServiceLevelLabel     string        `json:"service_level_label"`
	ProcedureStepsList    []string      `json:"procedure_steps_list"`
	RequiredDocumentsList []string      `json:"required_documents_list"`
	LegalBasisList        []string      `json:"legal_basis_list"`
}

// ServicePage is one page of catalog search results.
type ServicePage struct {
	Services    []PublicService `json:"services"`
	TotalCount  int64           `json:"total_count"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	IsSearching bool            `json:"is_searching"`
}

// DepartmentRecord is a department with its active contact persons.
type DepartmentRecord struct {
	Department Department     `json:"department"`
	TypeLabel  string         `json:"type_label"`
	Contacts   []ContactBrief `json:"contacts"`
}

type ContactBrief struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
}

// EmergencyGroup groups active emergency contacts under one type label.
// Groups keep the insertion order of the underlying display_order sort.
type EmergencyGroup struct {
	Label    string             `json:"label"`
	Contacts []EmergencyContact `json:"contacts"`
}

// NotificationData is everything the admin notification message needs,
// captured after the submission transaction commits.
type NotificationData struct {
	TrackingCode  string
	DisplayName   string
	Phone         string
	Email         string
	CategoryName  string
	PriorityLabel string
	Title         string
	Content       string
	Address       string
	ImageCount    int
	SubmittedAt   time.Time
}
