package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/benefits-service/internal/api/dto"
	"github.com/spec-kit/benefits-service/internal/service"
)

// AdminUsersHandler exposes account administration.
type AdminUsersHandler struct {
	service *service.CaseAdminService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(adminService *service.CaseAdminService) *AdminUsersHandler {
	return &AdminUsersHandler{service: adminService}
}

// ListUsers GET /admin/users.
func (h *AdminUsersHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	users, err := h.service.ListUsers(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Demote PATCH /admin/users/:id/demote.
func (h *AdminUsersHandler) Demote(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.service.DemoteAdmin(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
