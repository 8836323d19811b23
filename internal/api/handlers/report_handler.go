package handlers

import (
	"fluxpense-backend/domain"
	"fluxpense-backend/internal/api/presenters"
	"fluxpense-backend/pkg/report"

	"github.com/gofiber/fiber/v2"
)

type (
	ReportHandler interface {
		GetSpendingSummary(c *fiber.Ctx) error
		GetSpendingChart(c *fiber.Ctx) error
	}

	reportHandler struct {
		reportService report.ReportService
	}
)

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandler{
		reportService: reportService,
	}
}

func (h *reportHandler) GetSpendingSummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	period := c.Query("period", report.PeriodMonth)

	res, err := h.reportService.GetSpendingSummary(c.Context(), userID, period)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSpendingSummary, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSpendingSummary)
}

func (h *reportHandler) GetSpendingChart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	period := c.Query("period", report.PeriodMonth)

	png, err := h.reportService.RenderSpendingChart(c.Context(), userID, period)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRenderChart, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
