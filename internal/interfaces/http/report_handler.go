package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/report"
)

// ReportHandler cierre del día en JSON, PDF y XML.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Daily godoc
// @Summary      Cierre del día
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DailyReport
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	r, err := h.uc.Daily(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(r)
}

// DailyPDF godoc
// @Summary      Cierre del día en PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/reports/daily.pdf [get]
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	b, err := h.uc.DailyPDF(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="fechamento.pdf"`)
	return c.Send(b)
}

// DailyXML godoc
// @Summary      Cierre del día en XML
// @Tags         reports
// @Produce      application/xml
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/reports/daily.xml [get]
func (h *ReportHandler) DailyXML(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	b, err := h.uc.DailyXML(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="fechamento.xml"`)
	return c.Send(b)
}
