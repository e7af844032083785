package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"citizen-portal/internal/model"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

type FeedbackFilter struct {
	CategoryID *uint
	Status     *model.FeedbackStatus
	Priority   *int
	IDs        []uint
	Limit      int
	Offset     int
}

// Create persists the feedback and its images in one transaction so that
// readers never observe a feedback row without its attachments. Image rows
// get their feedback_id assigned after the parent insert.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *model.Feedback, images []model.FeedbackImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Images").Create(feedback).Error; err != nil {
			return err
		}
		if len(images) > 0 {
			for i := range images {
				images[i].FeedbackID = feedback.ID
			}
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
			feedback.Images = images
		}
		return nil
	})
}

func (r *FeedbackRepository) GetByTrackingCode(ctx context.Context, code string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", code).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("feedback_images.uploaded_at ASC")
		}).
		First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id uint) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("feedback_images.uploaded_at ASC")
		}).
		First(&feedback, "feedbacks.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]model.Feedback, error) {
	query := r.db.WithContext(ctx).Model(&model.Feedback{})
	query = applyFeedbackFilter(query, filter)

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var feedbacks []model.Feedback
	if err := query.
		Order("feedbacks.created_at DESC").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("feedback_images.uploaded_at ASC")
		}).
		Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// UpdateStatus writes the new status and optional admin note. resolved_at
// is stamped on the first transition to resolved and never touched again:
// COALESCE keeps an existing timestamp, and non-resolved statuses leave
// the column as it was.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id uint, status model.FeedbackStatus, adminNote *string) error {
	data := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if adminNote != nil {
		data["admin_note"] = *adminNote
	}
	if status == model.FeedbackStatusResolved {
		data["resolved_at"] = gorm.Expr("COALESCE(resolved_at, ?)", time.Now())
	}
	result := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("id = ?", id).
		Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BulkUpdateStatus applies the same status (and resolved_at semantics) to
// every feedback matched by the filter. Returns the number of rows touched.
func (r *FeedbackRepository) BulkUpdateStatus(ctx context.Context, filter FeedbackFilter, status model.FeedbackStatus) (int64, error) {
	data := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == model.FeedbackStatusResolved {
		data["resolved_at"] = gorm.Expr("COALESCE(resolved_at, ?)", time.Now())
	}
	query := r.db.WithContext(ctx).Model(&model.Feedback{})
	query = applyFeedbackFilter(query, filter)
	result := query.Updates(data)
	return result.RowsAffected, result.Error
}

func applyFeedbackFilter(query *gorm.DB, filter FeedbackFilter) *gorm.DB {
	if len(filter.IDs) > 0 {
		query = query.Where("feedbacks.id IN ?", filter.IDs)
	}
	if filter.CategoryID != nil {
		query = query.Where("feedbacks.category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("feedbacks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("feedbacks.priority = ?", *filter.Priority)
	}
	return query
}

func (r *FeedbackRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Order("priority_level DESC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *FeedbackRepository) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *FeedbackRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}
