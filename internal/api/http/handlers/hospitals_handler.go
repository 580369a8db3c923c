package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vacq/booking-service/internal/api/dto"
	"github.com/vacq/booking-service/internal/service"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

// HospitalsHandler exposes hospital CRUD.
type HospitalsHandler struct {
	hospitals *service.HospitalService
}

// NewHospitalsHandler constructs handler.
func NewHospitalsHandler(hospitals *service.HospitalService) *HospitalsHandler {
	return &HospitalsHandler{hospitals: hospitals}
}

// List handles GET /api/v1/hospitals.
func (h *HospitalsHandler) List(c *fiber.Ctx) error {
	hospitals, err := h.hospitals.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(hospitals), "data": hospitals})
}

// Get handles GET /api/v1/hospitals/:id.
func (h *HospitalsHandler) Get(c *fiber.Ctx) error {
	hospital, err := h.hospitals.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": hospital})
}

// Create handles POST /api/v1/hospitals.
func (h *HospitalsHandler) Create(c *fiber.Ctx) error {
	var req dto.HospitalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	hospital, err := h.hospitals.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": hospital})
}

// Update handles PUT /api/v1/hospitals/:id.
func (h *HospitalsHandler) Update(c *fiber.Ctx) error {
	var req dto.HospitalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	hospital, err := h.hospitals.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": hospital})
}

// Delete handles DELETE /api/v1/hospitals/:id.
func (h *HospitalsHandler) Delete(c *fiber.Ctx) error {
	if err := h.hospitals.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// VacCenters handles GET /api/v1/hospitals/vacCenters.
func (h *HospitalsHandler) VacCenters(c *fiber.Ctx) error {
	centers, err := h.hospitals.VacCenters(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": centers})
}
