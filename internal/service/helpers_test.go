package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"citizen-portal/internal/model"
	"citizen-portal/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A second pool connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Feedback{},
		&model.FeedbackImage{},
		&model.Department{},
		&model.ContactPerson{},
		&model.EmergencyContact{},
		&model.PublicService{},
	))
	return db
}

type fakeNotifier struct {
	sent []model.NotificationData
	err  error
}

func (n *fakeNotifier) NotifyNewFeedback(_ context.Context, data model.NotificationData) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, data)
	return nil
}

type fakeImageStore struct {
	saved   map[string][]byte
	removed []string
	nextID  int
	saveErr error
	failOn  int // when > 0, Save fails starting with the Nth call
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: map[string][]byte{}}
}

func (s *fakeImageStore) Save(_ context.Context, filename string, payload io.Reader) (string, error) {
	if s.saveErr != nil && s.nextID+1 >= s.failOn {
		return "", s.saveErr
	}
	data, err := io.ReadAll(payload)
	if err != nil {
		return "", err
	}
	s.nextID++
	path := fmt.Sprintf("feedback_images/test/%d_%s", s.nextID, filename)
	s.saved[path] = data
	return path, nil
}

func (s *fakeImageStore) Remove(_ context.Context, path string) error {
	delete(s.saved, path)
	s.removed = append(s.removed, path)
	return nil
}

func newFeedbackTestService(t *testing.T, db *gorm.DB, store *fakeImageStore, notifier *fakeNotifier) *FeedbackService {
	t.Helper()
	return NewFeedbackService(
		repository.NewFeedbackRepository(db),
		store,
		notifier,
		10,
		5<<20,
		zerolog.Nop(),
	)
}

func pngInput(filename string, size int) ImageInput {
	payload := bytes.Repeat([]byte{0x89}, size)
	return ImageInput{
		Filename:    filename,
		Size:        int64(size),
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		},
	}
}

func validSubmission() SubmitFeedbackInput {
	return SubmitFeedbackInput{
		Name:    "Nguyễn Văn A",
		Phone:   "0901234567",
		Title:   "Đèn đường hỏng",
		Content: "Đèn đường trước số nhà 12 không sáng đã ba ngày.",
		Address: "12 Lê Lợi, Phường 1",
	}
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(value).Count(&count).Error)
	return count
}
