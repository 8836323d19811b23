package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/entities"
	"fluxpense-backend/pkg/capture"
	"fluxpense-backend/pkg/expense"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReceiptRepository struct {
	receipts  map[string]*entities.Receipt
	createErr error
	calls     int
}

func newFakeReceiptRepository() *fakeReceiptRepository {
	return &fakeReceiptRepository{receipts: make(map[string]*entities.Receipt)}
}

func (r *fakeReceiptRepository) CreateReceipt(_ context.Context, receipt *entities.Receipt) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	stored := *receipt
	r.receipts[receipt.ID.String()] = &stored
	return nil
}

func (r *fakeReceiptRepository) GetReceiptByID(_ context.Context, id string) (*entities.Receipt, error) {
	r.calls++
	if receipt, ok := r.receipts[id]; ok {
		return receipt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReceiptRepository) UpdateReceipt(_ context.Context, receipt *entities.Receipt) error {
	r.calls++
	stored := *receipt
	r.receipts[receipt.ID.String()] = &stored
	return nil
}

func (r *fakeReceiptRepository) GetReceipts(_ context.Context, userID string, page, limit int) ([]*entities.Receipt, int64, error) {
	r.calls++
	var matched []*entities.Receipt
	for _, receipt := range r.receipts {
		if receipt.UserID.String() == userID {
			matched = append(matched, receipt)
		}
	}
	return matched, int64(len(matched)), nil
}

type fakeStoreExpenseRepository struct {
	expenses   map[string]*entities.Expense
	categories map[string]*entities.Category
	addErr     error
	calls      int
}

func newFakeStoreExpenseRepository() *fakeStoreExpenseRepository {
	return &fakeStoreExpenseRepository{
		expenses:   make(map[string]*entities.Expense),
		categories: make(map[string]*entities.Category),
	}
}

func (r *fakeStoreExpenseRepository) AddExpense(_ context.Context, e *entities.Expense) error {
	r.calls++
	if r.addErr != nil {
		return r.addErr
	}
	r.expenses[e.ID.String()] = e
	return nil
}

func (r *fakeStoreExpenseRepository) GetExpenseByID(_ context.Context, id string) (*entities.Expense, error) {
	r.calls++
	if e, ok := r.expenses[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStoreExpenseRepository) UpdateExpense(_ context.Context, e *entities.Expense) error {
	r.calls++
	r.expenses[e.ID.String()] = e
	return nil
}

func (r *fakeStoreExpenseRepository) DeleteExpense(_ context.Context, id string) error {
	r.calls++
	delete(r.expenses, id)
	return nil
}

func (r *fakeStoreExpenseRepository) GetExpenses(_ context.Context, _ string, _ expense.ExpenseFilter, _, _ int) ([]*entities.Expense, int64, error) {
	r.calls++
	return nil, 0, nil
}

func (r *fakeStoreExpenseRepository) GetExpensesByDateRange(_ context.Context, _ string, _, _ time.Time) ([]*entities.Expense, error) {
	r.calls++
	return nil, nil
}

func (r *fakeStoreExpenseRepository) GetCategories(_ context.Context, _ string) ([]*entities.Category, error) {
	r.calls++
	return nil, nil
}

func (r *fakeStoreExpenseRepository) GetCategoryByID(_ context.Context, id string) (*entities.Category, error) {
	r.calls++
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStoreExpenseRepository) CreateCategory(_ context.Context, c *entities.Category) error {
	r.calls++
	r.categories[c.ID.String()] = c
	return nil
}

func (r *fakeStoreExpenseRepository) CreateCategories(_ context.Context, cs []*entities.Category) error {
	r.calls++
	for _, c := range cs {
		r.categories[c.ID.String()] = c
	}
	return nil
}

type fakeNotificationRepository struct {
	notifications []*entities.Notification
}

func (r *fakeNotificationRepository) CreateNotification(_ context.Context, n *entities.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepository) GetNotificationByID(_ context.Context, _ string) (*entities.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepository) GetNotifications(_ context.Context, _ string, _, _ int) ([]*entities.Notification, int64, error) {
	return r.notifications, int64(len(r.notifications)), nil
}

func (r *fakeNotificationRepository) MarkAsRead(_ context.Context, _ string) error { return nil }

func (r *fakeNotificationRepository) MarkAllAsRead(_ context.Context, _ string) error { return nil }

type fakeExtractionClient struct {
	candidate domain.CandidateExpense
	err       error
	imageCall int
	textCall  int
	lastText  string
}

func (c *fakeExtractionClient) ExtractFromImage(_ context.Context, _ capture.Payload) (domain.CandidateExpense, error) {
	c.imageCall++
	return c.candidate, c.err
}

func (c *fakeExtractionClient) ExtractFromText(_ context.Context, content string) (domain.CandidateExpense, error) {
	c.textCall++
	c.lastText = content
	return c.candidate, c.err
}

type fakeS3 struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{uploaded: make(map[string][]byte)}
}

func (s *fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	key := dir + "/" + fileName
	s.uploaded[key] = nil
	return key, nil
}

func (s *fakeS3) UploadBytes(fileName string, data []byte, _ string, dir string) (string, error) {
	key := dir + "/" + fileName
	s.uploaded[key] = data
	return key, nil
}

func (s *fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}

func (s *fakeS3) DeleteFile(objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func (s *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}

func (s *fakeS3) GetObjectKeyFromLink(link string) string { return link }

type serviceFixture struct {
	service      ReceiptService
	receipts     *fakeReceiptRepository
	expenses     *fakeStoreExpenseRepository
	notification *fakeNotificationRepository
	extraction   *fakeExtractionClient
	s3           *fakeS3
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		receipts:     newFakeReceiptRepository(),
		expenses:     newFakeStoreExpenseRepository(),
		notification: &fakeNotificationRepository{},
		extraction: &fakeExtractionClient{
			candidate: domain.CandidateExpense{
				Amount:     45.67,
				Merchant:   "Walmart",
				Date:       "2024-01-15",
				Category:   "🍔 Food & Dining",
				Items:      []string{"milk", "bread"},
				Confidence: 0.92,
			},
		},
		s3: newFakeS3(),
	}
	f.service = NewReceiptService(f.receipts, f.expenses, f.notification, f.extraction, f.s3)
	return f
}

func newUploadFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="receipt_image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["receipt_image"][0]
}

func TestScanReceipt(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New().String()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	res, err := f.service.ScanReceipt(context.Background(), file, userID)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ReceiptID)
	assert.Equal(t, domain.OcrStatusCompleted, res.OcrStatus)
	assert.Equal(t, 45.67, res.Candidate.Amount)
	assert.Equal(t, "Walmart", res.Candidate.Merchant)
	assert.Contains(t, res.ImageURL, "receipts/receipt-"+res.ReceiptID)

	stored := f.receipts.receipts[res.ReceiptID]
	require.NotNil(t, stored)
	assert.Equal(t, domain.OcrStatusCompleted, stored.OcrStatus)
	assert.Equal(t, 45.67, stored.ExtractedAmount)
	assert.Equal(t, "Walmart", stored.ExtractedMerchant)
	assert.Equal(t, 0.92, stored.ConfidenceScore)
	require.NotNil(t, stored.ExtractedDate)
	assert.Equal(t, "2024-01-15", stored.ExtractedDate.Format("2006-01-02"))
	assert.Nil(t, stored.ExpenseID)
	assert.Contains(t, stored.OcrData, "Walmart")

	assert.Len(t, f.s3.uploaded, 1)
	assert.Equal(t, 1, f.extraction.imageCall)
}

func TestScanReceiptLowConfidence(t *testing.T) {
	f := newServiceFixture()
	f.extraction.candidate = domain.CandidateExpense{Confidence: 0.1}
	userID := uuid.New().String()
	file := newUploadFileHeader(t, "cat.jpg", "image/jpeg", []byte("a cat photo"))

	res, err := f.service.ScanReceipt(context.Background(), file, userID)
	require.ErrorIs(t, err, domain.ErrNoExpenseFound)

	// The receipt row and image still exist for audit; only the candidate is
	// withheld from auto-fill.
	assert.NotEmpty(t, res.ReceiptID)
	assert.Equal(t, domain.OcrStatusCompleted, res.OcrStatus)
	require.NotNil(t, f.receipts.receipts[res.ReceiptID])
	assert.Len(t, f.s3.uploaded, 1)
}

func TestScanReceiptRejectsNonImage(t *testing.T) {
	f := newServiceFixture()
	file := newUploadFileHeader(t, "notes.pdf", "application/pdf", []byte("pdf bytes"))

	_, err := f.service.ScanReceipt(context.Background(), file, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)

	assert.Empty(t, f.s3.uploaded)
	assert.Zero(t, f.receipts.calls)
	assert.Zero(t, f.extraction.imageCall)
}

func TestScanReceiptUnauthenticated(t *testing.T) {
	f := newServiceFixture()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	_, err := f.service.ScanReceipt(context.Background(), file, "")
	assert.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
}

func TestScanReceiptExtractionFailure(t *testing.T) {
	f := newServiceFixture()
	f.extraction.err = fmt.Errorf("%w: upstream timeout", domain.ErrExtractionFailed)
	userID := uuid.New().String()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	_, err := f.service.ScanReceipt(context.Background(), file, userID)
	require.ErrorIs(t, err, domain.ErrExtractionFailed)

	require.Len(t, f.receipts.receipts, 1)
	for _, stored := range f.receipts.receipts {
		assert.Equal(t, domain.OcrStatusFailed, stored.OcrStatus)
		assert.Contains(t, stored.OcrData, "upstream timeout")
	}
	// The image stays; the user can retry or commit manually.
	assert.Len(t, f.s3.uploaded, 1)
	assert.Empty(t, f.s3.deleted)
}

func TestScanReceiptRowInsertFailureCleansUpImage(t *testing.T) {
	f := newServiceFixture()
	f.receipts.createErr = errors.New("connection refused")
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	_, err := f.service.ScanReceipt(context.Background(), file, uuid.New().String())
	require.Error(t, err)

	assert.Empty(t, f.s3.uploaded)
	assert.Len(t, f.s3.deleted, 1)
	assert.Zero(t, f.extraction.imageCall)
}

func TestScanEmail(t *testing.T) {
	f := newServiceFixture()
	f.extraction.candidate = domain.CandidateExpense{
		Amount:     12.99,
		Merchant:   "Spotify",
		Date:       "2024-02-01",
		Category:   "🎬 Entertainment",
		Items:      []string{},
		Confidence: 0.85,
	}

	res, err := f.service.ScanEmail(context.Background(), domain.ScanEmailRequest{
		Content: "Your Spotify Premium receipt: $12.99 charged on Feb 1.",
		Subject: "Your receipt from Spotify",
		Sender:  "no-reply@spotify.com",
	}, uuid.New().String())
	require.NoError(t, err)

	assert.Equal(t, 12.99, res.Candidate.Amount)
	assert.Equal(t, "Spotify", res.Candidate.Merchant)
	assert.Contains(t, f.extraction.lastText, "Subject: Your receipt from Spotify")
	assert.Contains(t, f.extraction.lastText, "From: no-reply@spotify.com")

	// Text scans keep nothing around.
	assert.Empty(t, f.receipts.receipts)
	assert.Empty(t, f.s3.uploaded)
}

func TestScanEmailNoExpenseFound(t *testing.T) {
	f := newServiceFixture()
	f.extraction.candidate = domain.CandidateExpense{Confidence: 0.05}

	res, err := f.service.ScanEmail(context.Background(), domain.ScanEmailRequest{
		Content: "Hey, are we still on for lunch tomorrow?",
	}, uuid.New().String())
	require.ErrorIs(t, err, domain.ErrNoExpenseFound)
	assert.Equal(t, 0.05, res.Candidate.Confidence)
}

func TestScanEmailEmptyContent(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.ScanEmail(context.Background(), domain.ScanEmailRequest{Content: "   \n  "}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, f.extraction.textCall)
}

func TestCommitExpenseWithReceipt(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New().String()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	scan, err := f.service.ScanReceipt(context.Background(), file, userID)
	require.NoError(t, err)

	res, err := f.service.CommitExpense(context.Background(), domain.CommitExpenseRequest{
		Amount:       45.67,
		Description:  "Walmart groceries",
		Date:         "2024-01-15",
		MerchantName: "Walmart",
		ReceiptID:    scan.ReceiptID,
	}, userID)
	require.NoError(t, err)

	assert.Equal(t, 45.67, res.Amount)
	assert.Equal(t, scan.ImageURL, res.ReceiptURL)

	stored := f.expenses.expenses[res.ID]
	require.NotNil(t, stored)
	assert.Equal(t, scan.ImageURL, stored.ReceiptURL)
	assert.Contains(t, stored.ReceiptData, "Walmart")

	linked := f.receipts.receipts[scan.ReceiptID]
	require.NotNil(t, linked)
	require.NotNil(t, linked.ExpenseID)
	assert.Equal(t, res.ID, linked.ExpenseID.String())

	require.Len(t, f.notification.notifications, 1)
	assert.Equal(t, "Expense added", f.notification.notifications[0].Title)
}

func TestCommitExpenseWithoutReceipt(t *testing.T) {
	f := newServiceFixture()

	res, err := f.service.CommitExpense(context.Background(), domain.CommitExpenseRequest{
		Amount:      7.25,
		Description: "Parking",
	}, uuid.New().String())
	require.NoError(t, err)

	assert.Empty(t, res.ReceiptURL)
	assert.Len(t, f.expenses.expenses, 1)
}

func TestCommitExpenseMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		req  domain.CommitExpenseRequest
	}{
		{"zero amount", domain.CommitExpenseRequest{Description: "lunch"}},
		{"blank description", domain.CommitExpenseRequest{Amount: 10, Description: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()

			_, err := f.service.CommitExpense(context.Background(), tt.req, uuid.New().String())
			assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
			assert.Zero(t, f.expenses.calls, "validation must reject before touching the store")
			assert.Zero(t, f.receipts.calls)
		})
	}
}

func TestCommitExpenseUnauthenticated(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.CommitExpense(context.Background(), domain.CommitExpenseRequest{
		Amount:      10,
		Description: "lunch",
	}, "")
	assert.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
}

func TestCommitExpenseReceiptNotFound(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.CommitExpense(context.Background(), domain.CommitExpenseRequest{
		Amount:      10,
		Description: "lunch",
		ReceiptID:   uuid.New().String(),
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

func TestCommitExpenseForeignReceipt(t *testing.T) {
	f := newServiceFixture()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	scan, err := f.service.ScanReceipt(context.Background(), file, uuid.New().String())
	require.NoError(t, err)

	_, err = f.service.CommitExpense(context.Background(), domain.CommitExpenseRequest{
		Amount:      10,
		Description: "lunch",
		ReceiptID:   scan.ReceiptID,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestCommitExpenseInsertFailureLeavesReceiptOrphaned(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New().String()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	scan, err := f.service.ScanReceipt(context.Background(), file, userID)
	require.NoError(t, err)

	f.expenses.addErr = errors.New("connection refused")

	_, err = f.service.CommitExpense(context.Background(), domain.CommitExpenseRequest{
		Amount:      45.67,
		Description: "Walmart groceries",
		ReceiptID:   scan.ReceiptID,
	}, userID)
	require.Error(t, err)

	// The receipt survives without a linked expense.
	orphan := f.receipts.receipts[scan.ReceiptID]
	require.NotNil(t, orphan)
	assert.Nil(t, orphan.ExpenseID)
	assert.Empty(t, f.notification.notifications)
}

func TestGetReceiptByID(t *testing.T) {
	f := newServiceFixture()
	userID := uuid.New().String()
	file := newUploadFileHeader(t, "receipt.jpg", "image/jpeg", []byte("fake jpeg"))

	scan, err := f.service.ScanReceipt(context.Background(), file, userID)
	require.NoError(t, err)

	res, err := f.service.GetReceiptByID(context.Background(), scan.ReceiptID, userID)
	require.NoError(t, err)
	assert.Equal(t, scan.ReceiptID, res.ID)
	assert.Equal(t, "receipt.jpg", res.OriginalFilename)
	assert.Equal(t, "2024-01-15", res.ExtractedDate)

	_, err = f.service.GetReceiptByID(context.Background(), scan.ReceiptID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = f.service.GetReceiptByID(context.Background(), uuid.New().String(), userID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}
