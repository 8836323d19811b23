package routes

import (
	"fluxpense-backend/internal/api/handlers"
	"fluxpense-backend/internal/middleware"
	"fluxpense-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	ExpenseHandler      handlers.ExpenseHandler
	ReceiptHandler      handlers.ReceiptHandler
	ReportHandler       handlers.ReportHandler
	NotificationHandler handlers.NotificationHandler
	BillingHandler      handlers.BillingHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Expenses()
	c.Receipts()
	c.Reports()
	c.Notifications()
	c.Billing()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Expenses() {
	expenses := c.App.Group("/api/v1/expenses", c.Middleware.AuthMiddleware(c.JWTService))

	expenses.Post("", c.ExpenseHandler.AddExpense)
	expenses.Get("", c.ExpenseHandler.GetExpenses)
	expenses.Get("/:id", c.ExpenseHandler.GetExpenseDetails)
	expenses.Put("/:id", c.ExpenseHandler.UpdateExpense)
	expenses.Delete("/:id", c.ExpenseHandler.DeleteExpense)

	categories := c.App.Group("/api/v1/categories", c.Middleware.AuthMiddleware(c.JWTService))
	categories.Get("", c.ExpenseHandler.GetCategories)
	categories.Post("", c.ExpenseHandler.CreateCategory)
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1/receipts", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("/scan", c.ReceiptHandler.ScanReceipt)
	receipts.Post("/scan-email", c.ReceiptHandler.ScanEmail)
	receipts.Post("/commit", c.ReceiptHandler.CommitExpense)
	receipts.Get("", c.ReceiptHandler.GetReceipts)
	receipts.Get("/:id", c.ReceiptHandler.GetReceiptDetails)
}

func (c *Config) Reports() {
	reports := c.App.Group("/api/v1/reports", c.Middleware.AuthMiddleware(c.JWTService))

	reports.Get("/summary", c.ReportHandler.GetSpendingSummary)
	reports.Get("/chart", c.ReportHandler.GetSpendingChart)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))

	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Patch("/read-all", c.NotificationHandler.MarkAllAsRead)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkAsRead)
}

func (c *Config) Billing() {
	billing := c.App.Group("/api/v1/billing")

	billing.Get("/plans", c.BillingHandler.GetPlans)
	billing.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.BillingHandler.Subscribe)
	billing.Get("/subscription", c.Middleware.AuthMiddleware(c.JWTService), c.BillingHandler.GetSubscription)
	billing.Delete("/subscription", c.Middleware.AuthMiddleware(c.JWTService), c.BillingHandler.CancelSubscription)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.BillingHandler.MidtransWebhookHandler)
}
