package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/entities"
	"fluxpense-backend/internal/utils/storage"
	"fluxpense-backend/pkg/capture"
	"fluxpense-backend/pkg/expense"
	"fluxpense-backend/pkg/extraction"
	"fluxpense-backend/pkg/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// ReceiptService coordinates the capture-to-expense pipeline: normalize
	// the input, store the image, call the extraction endpoint, and persist
	// the reviewed result. The steps are deliberately not transactional; a
	// receipt row may outlive a failed expense insert.
	ReceiptService interface {
		ScanReceipt(ctx context.Context, file *multipart.FileHeader, userID string) (domain.ScanReceiptResponse, error)
		ScanEmail(ctx context.Context, req domain.ScanEmailRequest, userID string) (domain.ScanEmailResponse, error)
		CommitExpense(ctx context.Context, req domain.CommitExpenseRequest, userID string) (domain.ExpenseResponse, error)
		GetReceiptByID(ctx context.Context, id string, userID string) (domain.ReceiptResponse, error)
		GetReceipts(ctx context.Context, userID string, page, limit int) ([]domain.ReceiptResponse, int64, error)
	}

	receiptService struct {
		receiptRepository      ReceiptRepository
		expenseRepository      expense.ExpenseRepository
		notificationRepository notification.NotificationRepository
		extractionClient       extraction.ExtractionClient
		s3                     storage.AwsS3
	}
)

func NewReceiptService(
	receiptRepository ReceiptRepository,
	expenseRepository expense.ExpenseRepository,
	notificationRepository notification.NotificationRepository,
	extractionClient extraction.ExtractionClient,
	s3 storage.AwsS3,
) ReceiptService {
	return &receiptService{
		receiptRepository:      receiptRepository,
		expenseRepository:      expenseRepository,
		notificationRepository: notificationRepository,
		extractionClient:       extractionClient,
		s3:                     s3,
	}
}

// ScanReceipt stores the uploaded image and runs extraction against it. The
// receipt row is created with ocr_status = processing before the extraction
// call and updated to completed or failed afterwards, so a receipt exists for
// audit regardless of how extraction ends.
func (s *receiptService) ScanReceipt(ctx context.Context, file *multipart.FileHeader, userID string) (domain.ScanReceiptResponse, error) {
	if userID == "" {
		return domain.ScanReceiptResponse{}, domain.ErrUserNotAuthenticated
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ScanReceiptResponse{}, domain.ErrParseUUID
	}

	payload, err := capture.FromUpload(file, domain.MaxReceiptSize)
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	raw, err := payload.Bytes()
	if err != nil {
		return domain.ScanReceiptResponse{}, domain.ErrFileReadError
	}

	receiptID := uuid.New()
	objectKey, err := s.s3.UploadBytes(
		fmt.Sprintf("receipt-%s", receiptID.String()),
		raw,
		payload.MimeType,
		"receipts",
	)
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	imageURL := s.s3.GetPublicLinkKey(objectKey)

	receipt := &entities.Receipt{
		ID:               receiptID,
		UserID:           userUUID,
		ImageURL:         imageURL,
		OriginalFilename: payload.Filename,
		FileSize:         payload.Size,
		OcrStatus:        domain.OcrStatusProcessing,
	}

	if err := s.receiptRepository.CreateReceipt(ctx, receipt); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.ScanReceiptResponse{}, err
	}

	candidate, err := s.extractionClient.ExtractFromImage(ctx, payload)
	if err != nil {
		receipt.OcrStatus = domain.OcrStatusFailed
		receipt.OcrData = err.Error()
		if updateErr := s.receiptRepository.UpdateReceipt(ctx, receipt); updateErr != nil {
			log.Printf("failed to mark receipt %s as failed: %v", receipt.ID, updateErr)
		}
		return domain.ScanReceiptResponse{}, err
	}

	s.applyExtraction(receipt, candidate)
	if err := s.receiptRepository.UpdateReceipt(ctx, receipt); err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	res := domain.ScanReceiptResponse{
		ReceiptID: receipt.ID.String(),
		ImageURL:  imageURL,
		OcrStatus: receipt.OcrStatus,
		Candidate: candidate,
	}

	if candidate.Confidence < domain.MinExtractionConfidence {
		return res, domain.ErrNoExpenseFound
	}

	return res, nil
}

// ScanEmail runs extraction over pasted email text. No receipt row is created
// since there is no image to keep.
func (s *receiptService) ScanEmail(ctx context.Context, req domain.ScanEmailRequest, userID string) (domain.ScanEmailResponse, error) {
	if userID == "" {
		return domain.ScanEmailResponse{}, domain.ErrUserNotAuthenticated
	}

	content := req.Content
	if req.Subject != "" || req.Sender != "" {
		content = fmt.Sprintf("Subject: %s\nFrom: %s\n\n%s", req.Subject, req.Sender, req.Content)
	}

	payload, err := capture.FromEmailText(content)
	if err != nil {
		return domain.ScanEmailResponse{}, err
	}

	candidate, err := s.extractionClient.ExtractFromText(ctx, payload.Data)
	if err != nil {
		return domain.ScanEmailResponse{}, err
	}

	res := domain.ScanEmailResponse{Candidate: candidate}

	if candidate.Confidence < domain.MinExtractionConfidence {
		return res, domain.ErrNoExpenseFound
	}

	return res, nil
}

// CommitExpense persists the reviewed buffer. Required fields are checked
// before any store call; a failed expense insert after the receipt row exists
// leaves the receipt orphaned (expense_id null), which is allowed.
func (s *receiptService) CommitExpense(ctx context.Context, req domain.CommitExpenseRequest, userID string) (domain.ExpenseResponse, error) {
	if userID == "" {
		return domain.ExpenseResponse{}, domain.ErrUserNotAuthenticated
	}

	if req.Amount <= 0 || strings.TrimSpace(req.Description) == "" {
		return domain.ExpenseResponse{}, domain.ErrMissingRequiredField
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ExpenseResponse{}, domain.ErrParseUUID
	}

	var receipt *entities.Receipt
	if req.ReceiptID != "" {
		receipt, err = s.receiptRepository.GetReceiptByID(ctx, req.ReceiptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ExpenseResponse{}, domain.ErrReceiptNotFound
			}
			return domain.ExpenseResponse{}, err
		}

		if receipt.UserID.String() != userID {
			return domain.ExpenseResponse{}, domain.ErrUnauthorizedAccess
		}
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return domain.ExpenseResponse{}, domain.ErrInvalidDate
		}
	}

	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		category, err := s.expenseRepository.GetCategoryByID(ctx, req.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ExpenseResponse{}, domain.ErrCategoryNotFound
			}
			return domain.ExpenseResponse{}, err
		}
		if category.UserID.String() != userID {
			return domain.ExpenseResponse{}, domain.ErrUnauthorizedAccess
		}
		categoryID = &category.ID
	}

	newExpense := &entities.Expense{
		ID:            uuid.New(),
		UserID:        userUUID,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    categoryID,
		Date:          date,
		MerchantName:  req.MerchantName,
		PaymentMethod: req.PaymentMethod,
		Location:      req.Location,
		Tags:          req.Tags,
	}

	if receipt != nil {
		newExpense.ReceiptURL = receipt.ImageURL
		newExpense.ReceiptData = receipt.OcrData
	}

	if err := s.expenseRepository.AddExpense(ctx, newExpense); err != nil {
		return domain.ExpenseResponse{}, err
	}

	if receipt != nil {
		receipt.ExpenseID = &newExpense.ID
		if err := s.receiptRepository.UpdateReceipt(ctx, receipt); err != nil {
			log.Printf("failed to link receipt %s to expense %s: %v", receipt.ID, newExpense.ID, err)
		}
	}

	notif := &entities.Notification{
		ID:      uuid.New(),
		UserID:  userUUID,
		Title:   "Expense added",
		Message: fmt.Sprintf("%s — %.2f recorded on %s", newExpense.Description, newExpense.Amount, newExpense.Date.Format("2006-01-02")),
		Type:    "expense",
	}
	if err := s.notificationRepository.CreateNotification(ctx, notif); err != nil {
		log.Printf("failed to create notification for expense %s: %v", newExpense.ID, err)
	}

	res := domain.ExpenseResponse{
		ID:            newExpense.ID.String(),
		Amount:        newExpense.Amount,
		Description:   newExpense.Description,
		Date:          newExpense.Date,
		MerchantName:  newExpense.MerchantName,
		PaymentMethod: newExpense.PaymentMethod,
		Location:      newExpense.Location,
		Tags:          newExpense.Tags,
		ReceiptURL:    newExpense.ReceiptURL,
		CreatedAt:     newExpense.CreatedAt,
	}
	if categoryID != nil {
		res.CategoryID = categoryID.String()
	}
	return res, nil
}

func (s *receiptService) GetReceiptByID(ctx context.Context, id string, userID string) (domain.ReceiptResponse, error) {
	receipt, err := s.receiptRepository.GetReceiptByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptResponse{}, err
	}

	if receipt.UserID.String() != userID {
		return domain.ReceiptResponse{}, domain.ErrUnauthorizedAccess
	}

	return toReceiptResponse(receipt), nil
}

func (s *receiptService) GetReceipts(ctx context.Context, userID string, page, limit int) ([]domain.ReceiptResponse, int64, error) {
	receipts, count, err := s.receiptRepository.GetReceipts(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ReceiptResponse, 0, len(receipts))
	for _, receipt := range receipts {
		response = append(response, toReceiptResponse(receipt))
	}

	return response, count, nil
}

func (s *receiptService) applyExtraction(receipt *entities.Receipt, candidate domain.CandidateExpense) {
	receipt.OcrStatus = domain.OcrStatusCompleted
	receipt.ExtractedAmount = candidate.Amount
	receipt.ExtractedMerchant = candidate.Merchant
	receipt.ConfidenceScore = candidate.Confidence

	if extractedDate, err := time.Parse("2006-01-02", candidate.Date); err == nil {
		receipt.ExtractedDate = &extractedDate
	}

	if ocrJSON, err := json.Marshal(candidate); err == nil {
		receipt.OcrData = string(ocrJSON)
	}
}

func toReceiptResponse(receipt *entities.Receipt) domain.ReceiptResponse {
	res := domain.ReceiptResponse{
		ID:                receipt.ID.String(),
		ImageURL:          receipt.ImageURL,
		OriginalFilename:  receipt.OriginalFilename,
		FileSize:          receipt.FileSize,
		OcrStatus:         receipt.OcrStatus,
		ExtractedAmount:   receipt.ExtractedAmount,
		ExtractedMerchant: receipt.ExtractedMerchant,
		ConfidenceScore:   receipt.ConfidenceScore,
		CreatedAt:         receipt.CreatedAt,
	}
	if receipt.ExtractedDate != nil {
		res.ExtractedDate = receipt.ExtractedDate.Format("2006-01-02")
	}
	if receipt.ExpenseID != nil {
		res.ExpenseID = receipt.ExpenseID.String()
	}
	return res
}
