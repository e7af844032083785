package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"citizen-portal/internal/model"
	"citizen-portal/internal/repository"
)

func newDirectoryTestService(t *testing.T, db *gorm.DB) *DirectoryService {
	t.Helper()
	return NewDirectoryService(repository.NewDirectoryRepository(db))
}

func seedDepartment(t *testing.T, db *gorm.DB, dept model.Department) model.Department {
	t.Helper()
	if dept.WorkingHours == "" {
		dept.WorkingHours = model.DefaultWorkingHours
	}
	require.NoError(t, db.Create(&dept).Error)
	return dept
}

func TestListReturnsActiveDepartmentsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	active := seedDepartment(t, db, model.Department{
		Name:           "Phòng Tư pháp",
		DepartmentType: model.DepartmentTypeJustice,
		Address:        "1 Trần Phú",
		Phone:          "0251234567",
		IsActive:       true,
	})
	seedDepartment(t, db, model.Department{
		Name:           "Phòng đã giải thể",
		DepartmentType: model.DepartmentTypeOther,
		Address:        "2 Trần Phú",
		Phone:          "0257654321",
		IsActive:       false,
	})

	require.NoError(t, db.Create(&model.ContactPerson{
		DepartmentID: active.ID,
		FullName:     "Trần Thị B",
		Position:     model.PositionHead,
		Phone:        "0909000001",
		IsActive:     true,
	}).Error)
	require.NoError(t, db.Create(&model.ContactPerson{
		DepartmentID: active.ID,
		FullName:     "Người đã nghỉ",
		Position:     model.PositionStaff,
		Phone:        "0909000002",
		IsActive:     false,
	}).Error)

	listing, err := svc.List(context.Background(), ListDirectoryOptions{})
	require.NoError(t, err)

	require.Len(t, listing.Departments, 1)
	record := listing.Departments[0]
	assert.Equal(t, "Phòng Tư pháp", record.Department.Name)
	assert.Equal(t, "Tư pháp - Hộ tịch", record.TypeLabel)
	require.Len(t, record.Contacts, 1)
	assert.Equal(t, "Trần Thị B", record.Contacts[0].FullName)
	assert.Equal(t, "Trưởng phòng", record.Contacts[0].Position)
}

func TestListSearchAndTypeFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	seedDepartment(t, db, model.Department{
		Name:           "Phòng Tài chính",
		DepartmentType: model.DepartmentTypeFinance,
		Address:        "3 Lê Duẩn",
		Phone:          "0250000001",
		IsActive:       true,
	})
	seedDepartment(t, db, model.Department{
		Name:           "Công an phường",
		DepartmentType: model.DepartmentTypePolice,
		Description:    "Trực ban hình sự",
		Address:        "4 Lê Duẩn",
		Phone:          "0250000002",
		IsActive:       true,
	})

	listing, err := svc.List(context.Background(), ListDirectoryOptions{Search: "TRỰC BAN"})
	require.NoError(t, err)
	require.Len(t, listing.Departments, 1)
	assert.Equal(t, "Công an phường", listing.Departments[0].Department.Name)

	finance := model.DepartmentTypeFinance
	listing, err = svc.List(context.Background(), ListDirectoryOptions{Type: &finance})
	require.NoError(t, err)
	require.Len(t, listing.Departments, 1)
	assert.Equal(t, "Phòng Tài chính", listing.Departments[0].Department.Name)
}

func TestListRejectsInvalidType(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	bogus := model.DepartmentType("bo_phan")
	_, err := svc.List(context.Background(), ListDirectoryOptions{Type: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetDepartmentHidesInactive(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	inactive := seedDepartment(t, db, model.Department{
		Name:           "Phòng cũ",
		DepartmentType: model.DepartmentTypeOther,
		Address:        "5 Lê Duẩn",
		Phone:          "0250000003",
		IsActive:       false,
	})

	_, err := svc.GetDepartment(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmergencyGroupsKeepInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	rows := []model.EmergencyContact{
		{Name: "Cảnh sát 113", EmergencyType: model.EmergencyTypePolice, Phone: "113", DisplayOrder: 1, IsActive: true},
		{Name: "Cứu hỏa 114", EmergencyType: model.EmergencyTypeFire, Phone: "114", DisplayOrder: 2, IsActive: true},
		{Name: "Công an phường", EmergencyType: model.EmergencyTypePolice, Phone: "0251113113", DisplayOrder: 3, IsActive: true},
		{Name: "Đường dây cũ", EmergencyType: model.EmergencyTypeOther, Phone: "000", DisplayOrder: 0, IsActive: false},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	groups, err := svc.EmergencyGroups(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Công an/Cảnh sát", groups[0].Label)
	require.Len(t, groups[0].Contacts, 2)
	assert.Equal(t, "Cảnh sát 113", groups[0].Contacts[0].Name)
	assert.Equal(t, "Công an phường", groups[0].Contacts[1].Name)
	assert.Equal(t, "Cứu hỏa", groups[1].Label)
}

func TestCreateDepartmentDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	created, err := svc.CreateDepartment(context.Background(), DepartmentInput{
		Name:    "Phòng Kinh tế",
		Address: "6 Lê Duẩn",
		Phone:   "0250000004",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DepartmentTypeAdministration, created.DepartmentType)
	assert.Equal(t, model.DefaultWorkingHours, created.WorkingHours)
	assert.True(t, created.IsActive)
}

func TestCreateContactPositionOverride(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	dept, err := svc.CreateDepartment(context.Background(), DepartmentInput{
		Name:    "Phòng Văn hóa",
		Address: "7 Lê Duẩn",
		Phone:   "0250000005",
	})
	require.NoError(t, err)

	contact, err := svc.CreateContact(context.Background(), dept.ID, ContactPersonInput{
		FullName:       "Lê Văn C",
		Position:       model.PositionOther,
		PositionCustom: "Tổ trưởng tổ dân phố",
		Phone:          "0909000003",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tổ trưởng tổ dân phố", contact.FullPosition())

	head, err := svc.CreateContact(context.Background(), dept.ID, ContactPersonInput{
		FullName: "Phạm Thị D",
		Position: model.PositionHead,
		Phone:    "0909000004",
	})
	require.NoError(t, err)
	assert.Equal(t, "Trưởng phòng", head.FullPosition())
}

func TestCreateContactUnknownDepartment(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	_, err := svc.CreateContact(context.Background(), 999, ContactPersonInput{
		FullName: "Ai đó",
		Position: model.PositionStaff,
		Phone:    "0909000005",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateEmergencyContactValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newDirectoryTestService(t, db)

	_, err := svc.CreateEmergencyContact(context.Background(), EmergencyContactInput{
		Name:          "Cấp cứu 115",
		EmergencyType: model.EmergencyType("so_cuu"),
		Phone:         "115",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	created, err := svc.CreateEmergencyContact(context.Background(), EmergencyContactInput{
		Name:          "Cấp cứu 115",
		EmergencyType: model.EmergencyTypeMedical,
		Phone:         "115",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
}
