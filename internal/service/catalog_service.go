package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"citizen-portal/internal/model"
	"citizen-portal/internal/repository"
)

// ServicePageSize is the fixed page size of the public catalog listing.
const ServicePageSize = 10

type CatalogService struct {
	repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type SearchServicesOptions struct {
	Title        string
	PublicSector string
	Department   string
	ServiceLevel *int
	Jurisdiction *model.Jurisdiction
	Page         int
}

func (s *CatalogService) Search(ctx context.Context, opts SearchServicesOptions) (*model.ServicePage, error) {
	if opts.ServiceLevel != nil && !model.ValidServiceLevel(*opts.ServiceLevel) {
		return nil, ErrInvalidInput
	}
	if opts.Jurisdiction != nil && !opts.Jurisdiction.Valid() {
		return nil, ErrInvalidInput
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}

	filter := repository.ServiceFilter{
		Title:        strings.TrimSpace(opts.Title),
		PublicSector: strings.TrimSpace(opts.PublicSector),
		Department:   strings.TrimSpace(opts.Department),
		ServiceLevel: opts.ServiceLevel,
		Jurisdiction: opts.Jurisdiction,
		Limit:        ServicePageSize,
		Offset:       (page - 1) * ServicePageSize,
	}

	services, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.ServicePage{
		Services:    services,
		TotalCount:  total,
		Page:        page,
		PageSize:    ServicePageSize,
		IsSearching: filter.Active(),
	}, nil
}

// Get returns a catalog entry with its newline-delimited text fields
// split into line-item lists. The split is a pure read-time transform;
// nothing derived is stored.
func (s *CatalogService) Get(ctx context.Context, id uint) (*model.ServiceDetail, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model.ServiceDetail{
		Service:               *service,
		JurisdictionLabel:     service.Jurisdiction.Label(),
		ServiceLevelLabel:     model.ServiceLevelLabel(service.ServiceLevel),
		ProcedureStepsList:    SplitLines(service.ProcedureSteps),
		RequiredDocumentsList: SplitLines(service.RequiredDocuments),
		LegalBasisList:        SplitLines(service.LegalBasis),
	}, nil
}

type ServiceInput struct {
	Title             string
	PublicSector      string
	Department        string
	Jurisdiction      model.Jurisdiction
	ServiceLevel      int
	Description       string
	LegalBasis        string
	ProcedureSteps    string
	ProcessingTime    string
	Fee               string
	RequiredDocuments string
	ContactInfo       string
}

func (s *CatalogService) Create(ctx context.Context, input ServiceInput) (*model.PublicService, error) {
	if err := validateServiceInput(&input); err != nil {
		return nil, err
	}
	service := serviceFromInput(input)
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, input ServiceInput) (*model.PublicService, error) {
	if err := validateServiceInput(&input); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updated := serviceFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func validateServiceInput(input *ServiceInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		verr.add("title", "Tên thủ tục hành chính là bắt buộc.")
	}
	if strings.TrimSpace(input.PublicSector) == "" {
		verr.add("public_sector", "Lĩnh vực là bắt buộc.")
	}
	if strings.TrimSpace(input.Department) == "" {
		verr.add("department", "Cơ quan thực hiện là bắt buộc.")
	}
	if input.Jurisdiction == "" {
		input.Jurisdiction = model.JurisdictionProvincial
	} else if !input.Jurisdiction.Valid() {
		verr.add("jurisdiction", "Phạm vi thực hiện không hợp lệ.")
	}
	if input.ServiceLevel == 0 {
		input.ServiceLevel = 4
	} else if !model.ValidServiceLevel(input.ServiceLevel) {
		verr.add("service_level", "Mức độ dịch vụ công không hợp lệ.")
	}
	return verr.orNil()
}

func serviceFromInput(input ServiceInput) *model.PublicService {
	return &model.PublicService{
		Title:             strings.TrimSpace(input.Title),
		PublicSector:      strings.TrimSpace(input.PublicSector),
		Department:        strings.TrimSpace(input.Department),
		Jurisdiction:      input.Jurisdiction,
		ServiceLevel:      input.ServiceLevel,
		Description:       input.Description,
		LegalBasis:        input.LegalBasis,
		ProcedureSteps:    input.ProcedureSteps,
		ProcessingTime:    strings.TrimSpace(input.ProcessingTime),
		Fee:               strings.TrimSpace(input.Fee),
		RequiredDocuments: input.RequiredDocuments,
		ContactInfo:       strings.TrimSpace(input.ContactInfo),
	}
}

// SplitLines turns a newline-delimited text field into its line items,
// trimming whitespace and dropping blank lines.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
