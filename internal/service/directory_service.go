package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"citizen-portal/internal/model"
	"citizen-portal/internal/repository"
)

type DirectoryService struct {
	repo *repository.DirectoryRepository
}

func NewDirectoryService(repo *repository.DirectoryRepository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

type DirectoryListing struct {
	Departments     []model.DepartmentRecord `json:"departments"`
	EmergencyGroups []model.EmergencyGroup   `json:"emergency_groups"`
}

type ListDirectoryOptions struct {
	Search string
	Type   *model.DepartmentType
}

// List returns active departments matching the filter, each with its
// active contacts, always accompanied by the grouped emergency listing.
func (s *DirectoryService) List(ctx context.Context, opts ListDirectoryOptions) (*DirectoryListing, error) {
	if opts.Type != nil && !opts.Type.Valid() {
		return nil, ErrInvalidInput
	}

	departments, err := s.repo.ListDepartments(ctx, repository.DepartmentFilter{
		Search: strings.TrimSpace(opts.Search),
		Type:   opts.Type,
	})
	if err != nil {
		return nil, err
	}

	records := make([]model.DepartmentRecord, 0, len(departments))
	for _, dept := range departments {
		records = append(records, departmentRecord(dept))
	}

	groups, err := s.EmergencyGroups(ctx)
	if err != nil {
		return nil, err
	}

	return &DirectoryListing{
		Departments:     records,
		EmergencyGroups: groups,
	}, nil
}

func (s *DirectoryService) GetDepartment(ctx context.Context, id uint) (*model.DepartmentRecord, error) {
	department, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	record := departmentRecord(*department)
	return &record, nil
}

// EmergencyGroups groups active emergency contacts by their type label.
// Group order follows the first occurrence within the display_order sort,
// contact order within a group is preserved.
func (s *DirectoryService) EmergencyGroups(ctx context.Context) ([]model.EmergencyGroup, error) {
	contacts, err := s.repo.ListEmergencyContacts(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]model.EmergencyGroup, 0)
	index := make(map[string]int)
	for _, contact := range contacts {
		label := contact.EmergencyType.Label()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, model.EmergencyGroup{Label: label})
		}
		groups[i].Contacts = append(groups[i].Contacts, contact)
	}
	return groups, nil
}

func departmentRecord(dept model.Department) model.DepartmentRecord {
	contacts := make([]model.ContactBrief, 0, len(dept.Contacts))
	for i := range dept.Contacts {
		c := &dept.Contacts[i]
		contacts = append(contacts, model.ContactBrief{
			ID:       c.ID,
			FullName: c.FullName,
			Position: c.FullPosition(),
			Phone:    c.Phone,
			Mobile:   c.Mobile,
			Email:    c.Email,
		})
	}
	dept.Contacts = nil
	return model.DepartmentRecord{
		Department: dept,
		TypeLabel:  dept.DepartmentType.Label(),
		Contacts:   contacts,
	}
}

type DepartmentInput struct {
	Name           string
	DepartmentType model.DepartmentType
	Description    string
	Address        string
	Phone          string
	Hotline        string
	Email          string
	Fax            string
	WorkingHours   string
	Website        string
	MapEmbed       string
	DisplayOrder   int
	IsActive       *bool
}

func (s *DirectoryService) CreateDepartment(ctx context.Context, input DepartmentInput) (*model.Department, error) {
	if err := validateDepartmentInput(&input); err != nil {
		return nil, err
	}
	department := departmentFromInput(input)
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *DirectoryService) UpdateDepartment(ctx context.Context, id uint, input DepartmentInput) (*model.Department, error) {
	if err := validateDepartmentInput(&input); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetDepartmentAny(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updated := departmentFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateDepartment(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func validateDepartmentInput(input *DepartmentInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "Tên phòng ban là bắt buộc.")
	}
	if strings.TrimSpace(input.Address) == "" {
		verr.add("address", "Địa chỉ là bắt buộc.")
	}
	if strings.TrimSpace(input.Phone) == "" {
		verr.add("phone", "Số điện thoại là bắt buộc.")
	}
	if input.DepartmentType == "" {
		input.DepartmentType = model.DepartmentTypeAdministration
	} else if !input.DepartmentType.Valid() {
		verr.add("department_type", "Loại phòng ban không hợp lệ.")
	}
	if input.WorkingHours == "" {
		input.WorkingHours = model.DefaultWorkingHours
	}
	return verr.orNil()
}

func departmentFromInput(input DepartmentInput) *model.Department {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return &model.Department{
		Name:           strings.TrimSpace(input.Name),
		DepartmentType: input.DepartmentType,
		Description:    input.Description,
		Address:        strings.TrimSpace(input.Address),
		Phone:          strings.TrimSpace(input.Phone),
		Hotline:        strings.TrimSpace(input.Hotline),
		Email:          strings.TrimSpace(input.Email),
		Fax:            strings.TrimSpace(input.Fax),
		WorkingHours:   input.WorkingHours,
		Website:        strings.TrimSpace(input.Website),
		MapEmbed:       input.MapEmbed,
		DisplayOrder:   input.DisplayOrder,
		IsActive:       active,
	}
}

type ContactPersonInput struct {
	FullName       string
	Position       model.ContactPosition
	PositionCustom string
	Phone          string
	Mobile         string
	Email          string
	DisplayOrder   int
}

func (s *DirectoryService) CreateContact(ctx context.Context, departmentID uint, input ContactPersonInput) (*model.ContactPerson, error) {
	if _, err := s.repo.GetDepartmentAny(ctx, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	verr := &ValidationError{}
	if strings.TrimSpace(input.FullName) == "" {
		verr.add("full_name", "Họ và tên là bắt buộc.")
	}
	if strings.TrimSpace(input.Phone) == "" {
		verr.add("phone", "Số điện thoại là bắt buộc.")
	}
	if !input.Position.Valid() {
		verr.add("position", "Chức vụ không hợp lệ.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	contact := &model.ContactPerson{
		DepartmentID:   departmentID,
		FullName:       strings.TrimSpace(input.FullName),
		Position:       input.Position,
		PositionCustom: strings.TrimSpace(input.PositionCustom),
		Phone:          strings.TrimSpace(input.Phone),
		Mobile:         strings.TrimSpace(input.Mobile),
		Email:          strings.TrimSpace(input.Email),
		DisplayOrder:   input.DisplayOrder,
		IsActive:       true,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

type EmergencyContactInput struct {
	Name          string
	EmergencyType model.EmergencyType
	Phone         string
	Description   string
	DisplayOrder  int
}

func (s *DirectoryService) CreateEmergencyContact(ctx context.Context, input EmergencyContactInput) (*model.EmergencyContact, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "Tên đường dây là bắt buộc.")
	}
	if strings.TrimSpace(input.Phone) == "" {
		verr.add("phone", "Số điện thoại là bắt buộc.")
	}
	if !input.EmergencyType.Valid() {
		verr.add("emergency_type", "Loại đường dây không hợp lệ.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	contact := &model.EmergencyContact{
		Name:          strings.TrimSpace(input.Name),
		EmergencyType: input.EmergencyType,
		Phone:         strings.TrimSpace(input.Phone),
		Description:   input.Description,
		DisplayOrder:  input.DisplayOrder,
		IsActive:      true,
	}
	if err := s.repo.CreateEmergencyContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}
