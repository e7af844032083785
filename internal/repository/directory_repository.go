package repository

import (
	"context"

	"gorm.io/gorm"

	"citizen-portal/internal/model"
)

type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

type DepartmentFilter struct {
	Search string
	Type   *model.DepartmentType
}

// ListDepartments returns active departments matching the filter, ordered
// by display_order with name as the tie-break, each with its active
// contacts preloaded in the same order scheme.
func (r *DirectoryRepository) ListDepartments(ctx context.Context, filter DepartmentFilter) ([]model.Department, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Department{}).
		Where("departments.is_active = ?", true)

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(
			"(LOWER(departments.name) LIKE ? OR LOWER(departments.description) LIKE ? OR LOWER(departments.address) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Type != nil {
		query = query.Where("departments.department_type = ?", *filter.Type)
	}

	var departments []model.Department
	if err := query.
		Order("departments.display_order ASC, departments.name ASC").
		Preload("Contacts", func(db *gorm.DB) *gorm.DB {
			return db.Where("contact_persons.is_active = ?", true).
				Order("contact_persons.display_order ASC, contact_persons.full_name ASC")
		}).
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// GetDepartment resolves an active department by id with its active
// contacts. Inactive departments are hidden from the public read path.
func (r *DirectoryRepository) GetDepartment(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Where("departments.id = ? AND departments.is_active = ?", id, true).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB {
			return db.Where("contact_persons.is_active = ?", true).
				Order("contact_persons.display_order ASC, contact_persons.full_name ASC")
		}).
		First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *DirectoryRepository) ListEmergencyContacts(ctx context.Context) ([]model.EmergencyContact, error) {
	var contacts []model.EmergencyContact
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *DirectoryRepository) CreateDepartment(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Omit("Contacts").Create(department).Error
}

func (r *DirectoryRepository) UpdateDepartment(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Omit("Contacts").Save(department).Error
}

// GetDepartmentAny fetches a department regardless of the active flag,
// for the admin edit path.
func (r *DirectoryRepository) GetDepartmentAny(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	if err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *DirectoryRepository) CreateContact(ctx context.Context, contact *model.ContactPerson) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *DirectoryRepository) CreateEmergencyContact(ctx context.Context, contact *model.EmergencyContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}
