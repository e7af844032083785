package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"citizen-portal/internal/model"
	"citizen-portal/internal/repository"
)

// Notifier delivers the new-feedback message to the configured admin
// recipients. Implementations may fail; the submission never does because
// of it.
type Notifier interface {
	NotifyNewFeedback(ctx context.Context, data model.NotificationData) error
}

// ImageStore persists image payloads and returns the path they are
// addressable under.
type ImageStore interface {
	Save(ctx context.Context, filename string, payload io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// trackingCodeAttempts bounds the regenerate-and-retry loop on a
// tracking-code collision.
const trackingCodeAttempts = 3

type FeedbackService struct {
	repo         *repository.FeedbackRepository
	images       ImageStore
	notifier     Notifier
	maxImages    int
	maxImageSize int64
	log          zerolog.Logger
}

func NewFeedbackService(
	repo *repository.FeedbackRepository,
	images ImageStore,
	notifier Notifier,
	maxImages int,
	maxImageSize int64,
	log zerolog.Logger,
) *FeedbackService {
	return &FeedbackService{
		repo:         repo,
		images:       images,
		notifier:     notifier,
		maxImages:    maxImages,
		maxImageSize: maxImageSize,
		log:          log,
	}
}

type ImageInput struct {
	Filename    string
	Size        int64
	ContentType string
	Caption     string
	Open        func() (io.ReadCloser, error)
}

type SubmitFeedbackInput struct {
	Name        string
	IsAnonymous bool
	Phone       string
	Email       string
	CategoryID  *uint
	Priority    int
	Title       string
	Content     string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Images      []ImageInput
}

// Submit validates the citizen's complaint, persists it together with its
// images atomically and returns the record carrying the tracking code.
// The admin notification runs strictly after the commit and its failure
// is observed but never surfaced.
func (s *FeedbackService) Submit(ctx context.Context, input SubmitFeedbackInput) (*model.FeedbackRecord, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	images, storedPaths, err := s.storeImages(ctx, input.Images)
	if err != nil {
		s.removeStored(ctx, storedPaths)
		return nil, err
	}

	feedback := &model.Feedback{
		Name:        strings.TrimSpace(input.Name),
		IsAnonymous: input.IsAnonymous,
		Phone:       strings.TrimSpace(input.Phone),
		CategoryID:  input.CategoryID,
		Priority:    input.Priority,
		Title:       strings.TrimSpace(input.Title),
		Content:     strings.TrimSpace(input.Content),
		Status:      model.FeedbackStatusPending,
		Address:     strings.TrimSpace(input.Address),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		feedback.Email = &email
	}

	if err := s.createWithRetry(ctx, feedback, images); err != nil {
		s.removeStored(ctx, storedPaths)
		return nil, err
	}

	created, err := s.repo.GetByTrackingCode(ctx, feedback.TrackingCode)
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, created)

	record := model.NewFeedbackRecord(*created)
	return &record, nil
}

// createWithRetry regenerates the tracking code and retries when the
// store reports a unique violation. At 12 random hex characters a
// collision is astronomically unlikely, but the constraint exists and a
// retry is cheaper than failing the citizen's submission.
func (s *FeedbackService) createWithRetry(ctx context.Context, feedback *model.Feedback, images []model.FeedbackImage) error {
	var err error
	for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
		err = s.repo.Create(ctx, feedback, images)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		feedback.ID = 0
		feedback.TrackingCode = model.GenerateTrackingCode()
	}
	return err
}

func (s *FeedbackService) validate(ctx context.Context, input *SubmitFeedbackInput) error {
	verr := &ValidationError{}

	if !input.IsAnonymous && strings.TrimSpace(input.Name) == "" {
		verr.add("name", "Vui lòng nhập họ tên hoặc chọn gửi ẩn danh.")
	}
	if strings.TrimSpace(input.Phone) == "" {
		verr.add("phone", "Số điện thoại là bắt buộc.")
	}
	if strings.TrimSpace(input.Title) == "" {
		verr.add("title", "Tiêu đề là bắt buộc.")
	}
	if strings.TrimSpace(input.Content) == "" {
		verr.add("content", "Nội dung phản ánh là bắt buộc.")
	}

	if input.Priority == 0 {
		input.Priority = 2
	} else if !model.ValidPriority(input.Priority) {
		verr.add("priority", "Mức độ ưu tiên không hợp lệ.")
	}

	if input.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.add("category", "Danh mục không tồn tại.")
			} else {
				return err
			}
		}
	}

	if len(input.Images) > s.maxImages {
		verr.add("images", fmt.Sprintf("Bạn chỉ có thể tải lên tối đa %d hình ảnh.", s.maxImages))
	} else {
		for _, img := range input.Images {
			if img.Size > s.maxImageSize {
				verr.add("images", fmt.Sprintf("File %s quá lớn. Kích thước tối đa là 5MB.", img.Filename))
			}
			if !strings.HasPrefix(img.ContentType, "image/") {
				verr.add("images", fmt.Sprintf("File %s không phải là hình ảnh hợp lệ.", img.Filename))
			}
		}
	}

	return verr.orNil()
}

func (s *FeedbackService) storeImages(ctx context.Context, inputs []ImageInput) ([]model.FeedbackImage, []string, error) {
	images := make([]model.FeedbackImage, 0, len(inputs))
	paths := make([]string, 0, len(inputs))
	for _, input := range inputs {
		payload, err := input.Open()
		if err != nil {
			return nil, paths, fmt.Errorf("open image %s: %w", input.Filename, err)
		}
		path, err := s.images.Save(ctx, input.Filename, payload)
		closeErr := payload.Close()
		if err != nil {
			return nil, paths, fmt.Errorf("store image %s: %w", input.Filename, err)
		}
		if closeErr != nil {
			s.log.Warn().Err(closeErr).Str("file", input.Filename).Msg("closing image payload")
		}
		paths = append(paths, path)
		images = append(images, model.FeedbackImage{
			FilePath: path,
			Caption:  input.Caption,
		})
	}
	return images, paths, nil
}

// removeStored is best-effort cleanup of blobs written before a failed
// transaction; an orphaned file is a nuisance, an orphaned row is a bug.
func (s *FeedbackService) removeStored(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := s.images.Remove(ctx, path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("removing stored image after failed submission")
		}
	}
}

func (s *FeedbackService) notifyAdmins(ctx context.Context, feedback *model.Feedback) {
	email := ""
	if feedback.Email != nil {
		email = *feedback.Email
	}
	data := model.NotificationData{
		TrackingCode:  feedback.TrackingCode,
		DisplayName:   feedback.DisplayName(),
		Phone:         feedback.Phone,
		Email:         email,
		CategoryName:  feedback.CategoryName(),
		PriorityLabel: model.PriorityLabel(feedback.Priority),
		Title:         feedback.Title,
		Content:       feedback.Content,
		Address:       feedback.Address,
		ImageCount:    len(feedback.Images),
		SubmittedAt:   feedback.CreatedAt,
	}
	if err := s.notifier.NotifyNewFeedback(ctx, data); err != nil {
		s.log.Error().Err(err).
			Str("tracking_code", feedback.TrackingCode).
			Msg("admin notification failed")
	}
}

// Track resolves a tracking code case-insensitively. An empty code is a
// not-found without touching the store.
func (s *FeedbackService) Track(ctx context.Context, trackingCode string) (*model.FeedbackRecord, error) {
	code := strings.ToUpper(strings.TrimSpace(trackingCode))
	if code == "" {
		return nil, ErrNotFound
	}
	feedback, err := s.repo.GetByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	record := model.NewFeedbackRecord(*feedback)
	return &record, nil
}

type ListFeedbackOptions struct {
	CategoryID *uint
	Status     *model.FeedbackStatus
	Priority   *int
	Limit      int
	Offset     int
}

func (s *FeedbackService) List(ctx context.Context, opts ListFeedbackOptions) ([]model.FeedbackRecord, error) {
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, ErrInvalidInput
	}
	if opts.Priority != nil && !model.ValidPriority(*opts.Priority) {
		return nil, ErrInvalidInput
	}
	feedbacks, err := s.repo.List(ctx, repository.FeedbackFilter{
		CategoryID: opts.CategoryID,
		Status:     opts.Status,
		Priority:   opts.Priority,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
	if err != nil {
		return nil, err
	}
	records := make([]model.FeedbackRecord, 0, len(feedbacks))
	for _, f := range feedbacks {
		records = append(records, model.NewFeedbackRecord(f))
	}
	return records, nil
}

// UpdateStatus is the admin path for moving a feedback through its
// lifecycle. The first transition to resolved stamps resolved_at; later
// saves never change it.
func (s *FeedbackService) UpdateStatus(ctx context.Context, id uint, status model.FeedbackStatus, adminNote *string) (*model.FeedbackRecord, error) {
	if !status.Valid() {
		return nil, ErrInvalidInput
	}
	if err := s.repo.UpdateStatus(ctx, id, status, adminNote); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	feedback, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record := model.NewFeedbackRecord(*feedback)
	return &record, nil
}

type BulkStatusInput struct {
	IDs        []uint
	CategoryID *uint
	Status     *model.FeedbackStatus
	Priority   *int
	Target     model.FeedbackStatus
}

// BulkUpdateStatus applies one status to a filtered selection, with the
// same resolved_at semantics as the single-record path.
func (s *FeedbackService) BulkUpdateStatus(ctx context.Context, input BulkStatusInput) (int64, error) {
	if !input.Target.Valid() {
		return 0, ErrInvalidInput
	}
	if len(input.IDs) == 0 && input.CategoryID == nil && input.Status == nil && input.Priority == nil {
		return 0, ErrInvalidInput
	}
	return s.repo.BulkUpdateStatus(ctx, repository.FeedbackFilter{
		IDs:        input.IDs,
		CategoryID: input.CategoryID,
		Status:     input.Status,
		Priority:   input.Priority,
	}, input.Target)
}

func (s *FeedbackService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

type CreateCategoryInput struct {
	Name          string
	Description   string
	PriorityLevel int
}

func (s *FeedbackService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*model.Category, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.add("name", "Tên danh mục là bắt buộc.")
	}
	if input.PriorityLevel == 0 {
		input.PriorityLevel = 1
	} else if !model.ValidPriority(input.PriorityLevel) {
		verr.add("priority_level", "Mức độ ưu tiên không hợp lệ.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	category := &model.Category{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		PriorityLevel: input.PriorityLevel,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
