package model

import "time"

type DepartmentType string

const (
	DepartmentTypeAdministration DepartmentType = "hanh_chinh"
	DepartmentTypeFinance        DepartmentType = "tai_chinh"
	DepartmentTypeJustice        DepartmentType = "tu_phap"
	DepartmentTypeConstruction   DepartmentType = "xay_dung"
	DepartmentTypeEconomy        DepartmentType = "kinh_te"
	DepartmentTypeCulture        DepartmentType = "van_hoa"
	DepartmentTypePopulation     DepartmentType = "dan_so"
	DepartmentTypeLabor          DepartmentType = "lao_dong"
	DepartmentTypePolice         DepartmentType = "cong_an"
	DepartmentTypeHealth         DepartmentType = "y_te"
	DepartmentTypeEducation      DepartmentType = "giao_duc"
	DepartmentTypeOther          DepartmentType = "khac"
)

var departmentTypeLabels = map[DepartmentType]string{
	DepartmentTypeAdministration: "Hành chính - Tổng hợp",
	DepartmentTypeFinance:        "Tài chính - Kế toán",
	DepartmentTypeJustice:        "Tư pháp - Hộ tịch",
	DepartmentTypeConstruction:   "Xây dựng - Đô thị",
	DepartmentTypeEconomy:        "Kinh tế",
	DepartmentTypeCulture:        "Văn hóa - Xã hội",
	DepartmentTypePopulation:     "Dân số - KHHGĐ",
	DepartmentTypeLabor:          "Lao động - Thương binh",
	DepartmentTypePolice:         "Công an",
	DepartmentTypeHealth:         "Y tế",
	DepartmentTypeEducation:      "Giáo dục",
	DepartmentTypeOther:          "Khác",
}

func (t DepartmentType) Valid() bool {
	_, ok := departmentTypeLabels[t]
	return ok
}

func (t DepartmentType) Label() string {
	if label, ok := departmentTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

const DefaultWorkingHours = "Thứ 2 - Thứ 6: 7h30 - 11h30, 13h30 - 17h30"

type Department struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`
	DepartmentType DepartmentType `gorm:"type:varchar(50);not null;default:'hanh_chinh'" json:"department_type"`
	Description    string         `gorm:"type:text" json:"description"`
	Address        string         `gorm:"type:varchar(300);not null" json:"address"`
	Phone          string         `gorm:"type:varchar(20);not null" json:"phone"`
	Hotline        string         `gorm:"type:varchar(20)" json:"hotline"`
	Email          string         `gorm:"type:varchar(254)" json:"email"`
	Fax            string         `gorm:"type:varchar(20)" json:"fax"`
	WorkingHours   string         `gorm:"type:varchar(200);not null;default:'Thứ 2 - Thứ 6: 7h30 - 11h30, 13h30 - 17h30'" json:"working_hours"`
	Website        string         `gorm:"type:varchar(200)" json:"website"`
	MapEmbed       string         `gorm:"type:text" json:"map_embed"`
	DisplayOrder   int            `gorm:"not null;default:0" json:"display_order"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Contacts []ContactPerson `gorm:"foreignKey:DepartmentID" json:"contacts"`
}

func (Department) TableName() string {
	return "departments"
}

type ContactPosition string

const (
	PositionHead       ContactPosition = "truong_phong"
	PositionDeputyHead ContactPosition = "pho_phong"
	PositionSpecialist ContactPosition = "chuyen_vien"
	PositionStaff      ContactPosition = "nhan_vien"
	PositionOther      ContactPosition = "khac"
)

var contactPositionLabels = map[ContactPosition]string{
	PositionHead:       "Trưởng phòng",
	PositionDeputyHead: "Phó phòng",
	PositionSpecialist: "Chuyên viên",
	PositionStaff:      "Nhân viên",
	PositionOther:      "Khác",
}

func (p ContactPosition) Valid() bool {
	_, ok := contactPositionLabels[p]
	return ok
}

func (p ContactPosition) Label() string {
	if label, ok := contactPositionLabels[p]; ok {
		return label
	}
	return string(p)
}

type ContactPerson struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	DepartmentID   uint            `gorm:"not null;index" json:"department_id"`
	FullName       string          `gorm:"type:varchar(100);not null" json:"full_name"`
	Position       ContactPosition `gorm:"type:varchar(50);not null" json:"position"`
	PositionCustom string          `gorm:"type:varchar(100)" json:"position_custom"`
	Phone          string          `gorm:"type:varchar(20);not null" json:"phone"`
	Mobile         string          `gorm:"type:varchar(20)" json:"mobile"`
	Email          string          `gorm:"type:varchar(254)" json:"email"`
	DisplayOrder   int             `gorm:"not null;default:0" json:"display_order"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContactPerson) TableName() string {
	return "contact_persons"
}

// FullPosition prefers the free-text override when the position is "khac".
func (c *ContactPerson) FullPosition() string {
	if c.Position == PositionOther && c.PositionCustom != "" {
		return c.PositionCustom
	}
	return c.Position.Label()
}

type EmergencyType string

const (
	EmergencyTypePolice  EmergencyType = "canh_sat"
	EmergencyTypeFire    EmergencyType = "cuu_hoa"
	EmergencyTypeMedical EmergencyType = "y_te"
	EmergencyTypeUtility EmergencyType = "dien_nuoc"
	EmergencyTypeCivil   EmergencyType = "hanh_chinh"
	EmergencyTypeOther   EmergencyType = "khac"
)

var emergencyTypeLabels = map[EmergencyType]string{
	EmergencyTypePolice:  "Công an/Cảnh sát",
	EmergencyTypeFire:    "Cứu hỏa",
	EmergencyTypeMedical: "Y tế cấp cứu",
	EmergencyTypeUtility: "Điện nước",
	EmergencyTypeCivil:   "Hành chính khẩn cấp",
	EmergencyTypeOther:   "Khác",
}

func (t EmergencyType) Valid() bool {
	_, ok := emergencyTypeLabels[t]
	return ok
}

func (t EmergencyType) Label() string {
	if label, ok := emergencyTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

type EmergencyContact struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"type:varchar(200);not null" json:"name"`
	EmergencyType EmergencyType `gorm:"type:varchar(50);not null" json:"emergency_type"`
	Phone         string        `gorm:"type:varchar(20);not null" json:"phone"`
	Description   string        `gorm:"type:text" json:"description"`
	DisplayOrder  int           `gorm:"not null;default:0" json:"display_order"`
	IsActive      bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EmergencyContact) TableName() string {
	return "emergency_contacts"
}
