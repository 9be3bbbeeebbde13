package handlers

import (
	"errors"

	"cantina/internal/config"
	"cantina/internal/repositories"
	"cantina/internal/services/pix"
	"cantina/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PixHandler struct {
	pix     pix.Service
	tenants repositories.TenantRepository
}

func NewPixHandler(pixService pix.Service, tenants repositories.TenantRepository) *PixHandler {
	return &PixHandler{pix: pixService, tenants: tenants}
}

func (h *PixHandler) CreateCharge(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil || studentID <= 0 {
		return utils.BadRequest(c, "invalid student id")
	}

	var input struct {
		AmountCents int64 `json:"amountCents"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tenant, err := h.tenants.GetByID(claims.TenantID)
	if err != nil {
		return utils.InternalError(c, "failed to load tenant")
	}

	charge, err := h.pix.CreateCharge(c.Context(), tenant, uint(studentID), input.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, pix.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, pix.ErrProviderConfigured):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create charge")
		}
	}
	return utils.Success(c, fiber.Map{"charge": charge})
}

// Webhook is called by the payment gateway, not by tenant users; it is
// authenticated by a shared secret header instead of a bearer token.
func (h *PixHandler) Webhook(c *fiber.Ctx) error {
	expected := config.GetEnv("PIX_WEBHOOK_SECRET", "")
	if expected != "" && c.Get("x-pix-secret") != expected {
		return utils.Unauthorized(c, "invalid pix webhook secret")
	}

	var input struct {
		ChargeID string `json:"chargeId"`
	}
	if err := c.BodyParser(&input); err != nil || input.ChargeID == "" {
		return utils.BadRequest(c, "chargeId is required")
	}

	result, err := h.pix.Confirm(c.Context(), input.ChargeID)
	if err != nil {
		if errors.Is(err, pix.ErrChargeNotFound) {
			// Unknown charge ids are acknowledged so the gateway stops
			// retrying; there is nothing to credit.
			return utils.Success(c, fiber.Map{"ok": true, "skipped": true})
		}
		return utils.InternalError(c, "failed to confirm charge")
	}
	return utils.Success(c, fiber.Map{"ok": true, "alreadyProcessed": result.AlreadyProcessed})
}
