package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/benefits-service/internal/api/dto"
	"github.com/spec-kit/benefits-service/internal/service"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

// CasesHandler manages citizen case endpoints.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{service: caseService}
}

// CreateCase POST /cases.
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.service.CreateCase(c.UserContext(), user, service.CreateCaseInput{
		BenefitType:    req.BenefitType,
		Phone:          req.Phone,
		Address:        req.Address,
		Details:        req.Details,
		Attachments:    req.Attachments,
		SignatoryName:  req.SignatoryName,
		SignatureImage: req.SignatureImage,
		DocumentType:   req.DocumentType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": myCaseResponse(*view)})
}

// ListCases GET /cases.
func (h *CasesHandler) ListCases(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	views, err := h.service.ListMyCases(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.MyCaseResponse, 0, len(views))
	for _, v := range views {
		items = append(items, myCaseResponse(v))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCase GET /cases/:id.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetMyCase(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": myCaseResponse(*view)})
}

// RenewalReminder GET /cases/:id/renewal-reminder.
func (h *CasesHandler) RenewalReminder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	link, err := h.service.RenewalReminder(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReminderResponse{CalendarURL: link}})
}

// ListBenefits GET /benefits.
func (h *CasesHandler) ListBenefits(c *fiber.Ctx) error {
	catalogue := h.service.ListBenefits()
	items := make([]dto.BenefitResponse, 0, len(catalogue))
	for _, b := range catalogue {
		items = append(items, dto.BenefitResponse{Type: b.Type, Title: b.Title, Description: b.Description})
	}
	return c.JSON(fiber.Map{"data": items})
}
