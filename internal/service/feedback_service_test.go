package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizen-portal/internal/model"
)

func TestSubmitStoresSubmitterName(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, "Nguyễn Văn A", record.Feedback.Name)
	assert.Equal(t, "Nguyễn Văn A", record.DisplayName)
	assert.Equal(t, model.FeedbackStatusPending, record.Feedback.Status)
	assert.Equal(t, 2, record.Feedback.Priority)
}

func TestSubmitAnonymousStoresPlaceholder(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	input := validSubmission()
	input.Name = "Nguyễn Văn A"
	input.IsAnonymous = true

	record, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	// The real name must not survive anywhere, not even in the stored row.
	assert.Equal(t, model.AnonymousName, record.Feedback.Name)
	assert.Equal(t, model.AnonymousName, record.DisplayName)

	var stored model.Feedback
	require.NoError(t, db.First(&stored, record.Feedback.ID).Error)
	assert.Equal(t, model.AnonymousName, stored.Name)
}

func TestSubmitAnonymousWithoutName(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	input := validSubmission()
	input.Name = ""
	input.IsAnonymous = true

	record, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.AnonymousName, record.Feedback.Name)
}

func TestSubmitRequiresNameUnlessAnonymous(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	input := validSubmission()
	input.Name = ""

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Zero(t, countRows(t, db, &model.Feedback{}))
}

func TestSubmitRequiresPhone(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	input := validSubmission()
	input.Phone = "  "

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Fields[0].Field)
}

func TestSubmitGeneratesTrackingCode(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	code := record.Feedback.TrackingCode
	require.Len(t, code, model.TrackingCodeLength)
	assert.Equal(t, strings.ToUpper(code), code)
	for _, r := range code {
		assert.Contains(t, "0123456789ABCDEF", string(r))
	}
}

func TestSubmitUnknownCategoryRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	missing := uint(99)
	input := validSubmission()
	input.CategoryID = &missing

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Fields[0].Field)
}

func TestSubmitPersistsImagesAtomically(t *testing.T) {
	db := newTestDB(t)
	store := newFakeImageStore()
	svc := newFeedbackTestService(t, db, store, &fakeNotifier{})

	input := validSubmission()
	input.Images = []ImageInput{
		pngInput("one.png", 128),
		pngInput("two.png", 256),
	}

	record, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, record.Feedback.Images, 2)
	assert.Equal(t, record.Feedback.ID, record.Feedback.Images[0].FeedbackID)
	assert.Len(t, store.saved, 2)
	assert.EqualValues(t, 2, countRows(t, db, &model.FeedbackImage{}))
}

func TestSubmitRejectsTooManyImages(t *testing.T) {
	db := newTestDB(t)
	store := newFakeImageStore()
	svc := newFeedbackTestService(t, db, store, &fakeNotifier{})

	input := validSubmission()
	for i := 0; i < 11; i++ {
		input.Images = append(input.Images, pngInput("img.png", 64))
	}

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "images", verr.Fields[0].Field)

	// Nothing may be half-written after a rejected submission.
	assert.Zero(t, countRows(t, db, &model.Feedback{}))
	assert.Zero(t, countRows(t, db, &model.FeedbackImage{}))
	assert.Empty(t, store.saved)
}

func TestSubmitRejectsOversizedImage(t *testing.T) {
	db := newTestDB(t)
	store := newFakeImageStore()
	svc := newFeedbackTestService(t, db, store, &fakeNotifier{})

	input := validSubmission()
	big := pngInput("big.png", 64)
	big.Size = 5<<20 + 1
	input.Images = []ImageInput{big}

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[0].Message, "big.png")
	assert.Zero(t, countRows(t, db, &model.Feedback{}))
	assert.Empty(t, store.saved)
}

func TestSubmitRejectsNonImagePayload(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	input := validSubmission()
	doc := pngInput("report.pdf", 64)
	doc.ContentType = "application/pdf"
	input.Images = []ImageInput{doc}

	_, err := svc.Submit(context.Background(), input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[0].Message, "report.pdf")
	assert.Zero(t, countRows(t, db, &model.Feedback{}))
}

func TestSubmitRetriesOnTrackingCodeCollision(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	existing := model.Feedback{
		TrackingCode: "AAAABBBBCCCC",
		Name:         "Trần Thị B",
		Phone:        "0907654321",
		Title:        "Rác thải tồn đọng",
		Content:      "Rác chưa được thu gom.",
	}
	require.NoError(t, db.Create(&existing).Error)

	colliding := &model.Feedback{
		TrackingCode: "AAAABBBBCCCC",
		Name:         "Nguyễn Văn A",
		Phone:        "0901234567",
		Title:        "Đèn đường hỏng",
		Content:      "Không sáng.",
	}
	require.NoError(t, svc.createWithRetry(context.Background(), colliding, nil))

	assert.NotEqual(t, "AAAABBBBCCCC", colliding.TrackingCode)
	assert.Len(t, colliding.TrackingCode, model.TrackingCodeLength)
	assert.EqualValues(t, 2, countRows(t, db, &model.Feedback{}))

	found, err := svc.Track(context.Background(), colliding.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, "Đèn đường hỏng", found.Feedback.Title)
}

func TestSubmitRemovesStoredImagesWhenStoreFailsMidBatch(t *testing.T) {
	db := newTestDB(t)
	store := newFakeImageStore()
	store.saveErr = errors.New("disk full")
	store.failOn = 2
	svc := newFeedbackTestService(t, db, store, &fakeNotifier{})

	input := validSubmission()
	input.Images = []ImageInput{
		pngInput("one.png", 64),
		pngInput("two.png", 64),
	}

	_, err := svc.Submit(context.Background(), input)
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "a storage failure is not a validation failure")

	// No rows, and the blob written before the failure is cleaned up.
	assert.Zero(t, countRows(t, db, &model.Feedback{}))
	assert.Zero(t, countRows(t, db, &model.FeedbackImage{}))
	assert.Empty(t, store.saved)
	assert.Len(t, store.removed, 1)
}

func TestSubmitNotifiesAdminsAfterCommit(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := newFeedbackTestService(t, db, newFakeImageStore(), notifier)

	input := validSubmission()
	input.Images = []ImageInput{pngInput("one.png", 64)}

	record, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	sent := notifier.sent[0]
	assert.Equal(t, record.Feedback.TrackingCode, sent.TrackingCode)
	assert.Equal(t, "Nguyễn Văn A", sent.DisplayName)
	assert.Equal(t, model.UnknownCategoryName, sent.CategoryName)
	assert.Equal(t, 1, sent.ImageCount)
}

func TestSubmitSucceedsWhenNotifierFails(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := newFeedbackTestService(t, db, newFakeImageStore(), notifier)

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.NotEmpty(t, record.Feedback.TrackingCode)
	assert.EqualValues(t, 1, countRows(t, db, &model.Feedback{}))
}

func TestTrackIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	found, err := svc.Track(context.Background(), "  "+strings.ToLower(record.Feedback.TrackingCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, record.Feedback.ID, found.Feedback.ID)
}

func TestTrackUnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	_, err := svc.Track(context.Background(), "AAAABBBBCCCC")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Track(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByStatusAndPriority(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	first, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	urgent := validSubmission()
	urgent.Priority = 4
	second, err := svc.Submit(context.Background(), urgent)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), second.Feedback.ID, model.FeedbackStatusProcessing, nil)
	require.NoError(t, err)

	processing := model.FeedbackStatusProcessing
	records, err := svc.List(context.Background(), ListFeedbackOptions{Status: &processing})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.Feedback.ID, records[0].Feedback.ID)

	priority := 2
	records, err = svc.List(context.Background(), ListFeedbackOptions{Priority: &priority})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first.Feedback.ID, records[0].Feedback.ID)
}

func TestListRejectsInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	bogus := model.FeedbackStatus("archived")
	_, err := svc.List(context.Background(), ListFeedbackOptions{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatusStampsResolvedOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	record, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	id := record.Feedback.ID

	resolved, err := svc.UpdateStatus(context.Background(), id, model.FeedbackStatusResolved, nil)
	require.NoError(t, err)
	require.NotNil(t, resolved.Feedback.ResolvedAt)
	first := *resolved.Feedback.ResolvedAt

	time.Sleep(20 * time.Millisecond)

	note := "đã xử lý lại"
	again, err := svc.UpdateStatus(context.Background(), id, model.FeedbackStatusResolved, &note)
	require.NoError(t, err)
	require.NotNil(t, again.Feedback.ResolvedAt)
	assert.True(t, again.Feedback.ResolvedAt.Equal(first), "resolved_at must not move on later saves")
	assert.Equal(t, "đã xử lý lại", again.Feedback.AdminNote)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), 999, model.FeedbackStatusResolved, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusRejectsInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), 1, model.FeedbackStatus("done"), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBulkUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	var ids []uint
	for i := 0; i < 3; i++ {
		record, err := svc.Submit(context.Background(), validSubmission())
		require.NoError(t, err)
		ids = append(ids, record.Feedback.ID)
	}

	updated, err := svc.BulkUpdateStatus(context.Background(), BulkStatusInput{
		IDs:    ids[:2],
		Target: model.FeedbackStatusRejected,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	rejected := model.FeedbackStatusRejected
	records, err := svc.List(context.Background(), ListFeedbackOptions{Status: &rejected})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBulkUpdateStatusRequiresSelection(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedbackTestService(t, db, newFakeImageStore(), &fakeNotifier{})

	_, err := svc.BulkUpdateStatus(context.Background(), BulkStatusInput{
		Target: model.FeedbackStatusResolved,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCategoryAndSubmitAgainstIt(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := newFeedbackTestService(t, db, newFakeImageStore(), notifier)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name:          "Hạ tầng đô thị",
		PriorityLevel: 3,
	})
	require.NoError(t, err)

	input := validSubmission()
	input.CategoryID = &category.ID

	record, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Hạ tầng đô thị", record.CategoryName)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Hạ tầng đô thị", notifier.sent[0].CategoryName)
}
