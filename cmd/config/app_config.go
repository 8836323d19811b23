package config

import (
	"os"
	"time"

	"fluxpense-backend/internal/api/handlers"
	"fluxpense-backend/internal/api/routes"
	"fluxpense-backend/internal/middleware"
	"fluxpense-backend/internal/utils"
	"fluxpense-backend/internal/utils/storage"
	"fluxpense-backend/pkg/billing"
	"fluxpense-backend/pkg/expense"
	"fluxpense-backend/pkg/extraction"
	"fluxpense-backend/pkg/jwt"
	"fluxpense-backend/pkg/notification"
	"fluxpense-backend/pkg/receipt"
	"fluxpense-backend/pkg/report"
	"fluxpense-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	extractionClient := extraction.NewExtractionClient()

	// Repository
	userRepository := user.NewUserRepository(db)
	expenseRepository := expense.NewExpenseRepository(db)
	receiptRepository := receipt.NewReceiptRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)
	billingRepository := billing.NewBillingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	expenseService := expense.NewExpenseService(expenseRepository)
	userService := user.NewUserService(userRepository, expenseService, jwtService, s3)
	receiptService := receipt.NewReceiptService(
		receiptRepository,
		expenseRepository,
		notificationRepository,
		extractionClient,
		s3,
	)
	reportService := report.NewReportService(expenseRepository)
	notificationService := notification.NewNotificationService(notificationRepository)
	billingService := billing.NewBillingService(billingRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	expenseHandler := handlers.NewExpenseHandler(expenseService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)
	reportHandler := handlers.NewReportHandler(reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	billingHandler := handlers.NewBillingHandler(billingService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		ExpenseHandler:      expenseHandler,
		ReceiptHandler:      receiptHandler,
		ReportHandler:       reportHandler,
		NotificationHandler: notificationHandler,
		BillingHandler:      billingHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
