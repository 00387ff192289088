package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/benefits-service/internal/api/dto"
	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/lifecycle"
	"github.com/spec-kit/benefits-service/internal/service"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

// AdminCasesHandler exposes the admin case dashboard and mutations.
type AdminCasesHandler struct {
	service *service.CaseAdminService
}

// NewAdminCasesHandler constructs handler.
func NewAdminCasesHandler(adminService *service.CaseAdminService) *AdminCasesHandler {
	return &AdminCasesHandler{service: adminService}
}

// ListCases GET /admin/cases?renewal=&status=.
func (h *AdminCasesHandler) ListCases(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	filter := service.AdminCaseFilter{Renewal: lifecycle.ParseRenewalFilter(c.Query("renewal"))}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Statuses = append(filter.Statuses, domain.CaseStatus(part))
			}
		}
	}

	list, err := h.service.ListCases(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.AdminCaseResponse, 0, len(list.Cases))
	for _, v := range list.Cases {
		items = append(items, adminCaseResponse(v))
	}
	return c.JSON(fiber.Map{"data": dto.AdminCaseListResponse{
		Cases:   items,
		Summary: summaryResponse(list.Summary),
	}})
}

// GetCase GET /admin/cases/:id.
func (h *AdminCasesHandler) GetCase(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetCase(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminCaseResponse(*view)})
}

// SetStatus PATCH /admin/cases/:id.
func (h *AdminCasesHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.SetStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminCaseResponse(*view)})
}

// ConfirmCompleted PATCH /admin/cases/:id/confirm-completed.
func (h *AdminCasesHandler) ConfirmCompleted(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	view, err := h.service.ConfirmCompleted(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminCaseResponse(*view)})
}

// UpdateProcessing PATCH /admin/cases/:id/processing.
func (h *AdminCasesHandler) UpdateProcessing(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ProcessingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.AdvanceStage(c.UserContext(), actor, c.Params("id"), domain.Stage(req.Stage), lifecycle.StageExtra{
		RejectionReason:  req.RejectionReason,
		ApprovedBenefits: req.ApprovedBenefits,
		Force:            req.Force,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminCaseResponse(*view)})
}

// MarkRenewed PATCH /admin/cases/:id/renewed.
func (h *AdminCasesHandler) MarkRenewed(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	view, err := h.service.MarkRenewed(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminCaseResponse(*view)})
}

// DeleteCase DELETE /admin/cases/:id.
func (h *AdminCasesHandler) DeleteCase(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCase(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListHistory GET /admin/cases/:id/history.
func (h *AdminCasesHandler) ListHistory(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	entries, err := h.service.ListHistory(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(entries)})
}
