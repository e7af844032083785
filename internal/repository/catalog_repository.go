package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"citizen-portal/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type ServiceFilter struct {
	Title        string
	PublicSector string
	Department   string
	ServiceLevel *int
	Jurisdiction *model.Jurisdiction
	Limit        int
	Offset       int
}

func (f ServiceFilter) Active() bool {
	return f.Title != "" ||
		f.PublicSector != "" ||
		f.Department != "" ||
		f.ServiceLevel != nil ||
		f.Jurisdiction != nil
}

// List returns one page of matching services newest-first together with
// the unpaginated match count.
func (r *CatalogRepository) List(ctx context.Context, filter ServiceFilter) ([]model.PublicService, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.PublicService{})
	query = applyServiceFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var services []model.PublicService
	if err := query.
		Order("public_services.created_at DESC").
		Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, id uint) (*model.PublicService, error) {
	var service model.PublicService
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *CatalogRepository) Create(ctx context.Context, service *model.PublicService) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *CatalogRepository) Update(ctx context.Context, service *model.PublicService) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func applyServiceFilter(query *gorm.DB, filter ServiceFilter) *gorm.DB {
	if filter.Title != "" {
		pattern := containsPattern(filter.Title)
		query = query.Where("(LOWER(public_services.title) LIKE ? OR LOWER(public_services.description) LIKE ?)", pattern, pattern)
	}
	if filter.PublicSector != "" {
		query = query.Where("LOWER(public_services.public_sector) LIKE ?", containsPattern(filter.PublicSector))
	}
	if filter.Department != "" {
		query = query.Where("LOWER(public_services.department) LIKE ?", containsPattern(filter.Department))
	}
	if filter.ServiceLevel != nil {
		query = query.Where("public_services.service_level = ?", *filter.ServiceLevel)
	}
	if filter.Jurisdiction != nil {
		query = query.Where("public_services.jurisdiction = ?", *filter.Jurisdiction)
	}
	return query
}

// containsPattern builds a case-insensitive substring LIKE pattern.
func containsPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
