package model

import "time"

type Jurisdiction string

const (
	JurisdictionCentral    Jurisdiction = "central"
	JurisdictionProvincial Jurisdiction = "provincial"
	JurisdictionDistrict   Jurisdiction = "district"
	JurisdictionCommune    Jurisdiction = "commune"
)

var jurisdictionLabels = map[Jurisdiction]string{
	JurisdictionCentral:    "Trung ương",
	JurisdictionProvincial: "Cấp Tỉnh",
	JurisdictionDistrict:   "Cấp Huyện",
	JurisdictionCommune:    "Cấp Xã",
}

func (j Jurisdiction) Valid() bool {
	_, ok := jurisdictionLabels[j]
	return ok
}

func (j Jurisdiction) Label() string {
	if label, ok := jurisdictionLabels[j]; ok {
		return label
	}
	return string(j)
}

var serviceLevelLabels = map[int]string{
	1: "Mức 1 - Thông tin",
	2: "Mức 2 - Tương tác một chiều",
	3: "Mức 3 - Tương tác hai chiều",
	4: "Mức 4 - Giao dịch điện tử",
}

func ValidServiceLevel(level int) bool {
	_, ok := serviceLevelLabels[level]
	return ok
}

func ServiceLevelLabel(level int) string {
	if label, ok := serviceLevelLabels[level]; ok {
		return label
	}
	return ""
}

// PublicService describes one administrative procedure in the public
// catalog. procedure_steps, required_documents and legal_basis are stored
// as newline-delimited text; the list form is derived at read time.
type PublicService struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	Title             string       `gorm:"type:varchar(255);not null" json:"title"`
	PublicSector      string       `gorm:"type:varchar(100);not null" json:"public_sector"`
	Department        string       `gorm:"type:varchar(150);not null" json:"department"`
	Jurisdiction      Jurisdiction `gorm:"type:varchar(50);not null;default:'provincial'" json:"jurisdiction"`
	ServiceLevel      int          `gorm:"not null;default:4" json:"service_level"`
	Description       string       `gorm:"type:text" json:"description"`
	LegalBasis        string       `gorm:"type:text" json:"legal_basis"`
	ProcedureSteps    string       `gorm:"type:text" json:"procedure_steps"`
	ProcessingTime    string       `gorm:"type:varchar(50)" json:"processing_time"`
	Fee               string       `gorm:"type:varchar(100)" json:"fee"`
	RequiredDocuments string       `gorm:"type:text" json:"required_documents"`
	ContactInfo       string       `gorm:"type:varchar(255)" json:"contact_info"`
	CreatedAt         time.Time    `gorm:"autoCreateTime;index:idx_public_services_created_at,sort:desc" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PublicService) TableName() string {
	return "public_services"
}
