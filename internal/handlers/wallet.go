package handlers

import (
	"context"
	"errors"

	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services/ledger"
	"cantina/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledger ledger.Service
}

func NewWalletHandler(ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{ledger: ledgerService}
}

// extractTenantClaims is a helper shared by all tenant-scoped handlers.
func extractTenantClaims(c *fiber.Ctx) (*models.TenantClaims, error) {
	claims, ok := c.Locals("claims").(*models.TenantClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

type amountInput struct {
	AmountCents int64       `json:"amountCents"`
	RequestID   string      `json:"requestId"`
	Meta        models.JSON `json:"meta"`
}

// ledgerOp is the shared shape of Topup, Debit and Refund.
type ledgerOp func(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*ledger.WalletView, error)

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil || studentID <= 0 {
		return utils.BadRequest(c, "invalid student id")
	}

	view, err := h.ledger.Get(c.Context(), claims.TenantID, uint(studentID))
	if err != nil {
		return mapLedgerError(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": view})
}

func (h *WalletHandler) Topup(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.Topup)
}

func (h *WalletHandler) Debit(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.Debit)
}

func (h *WalletHandler) Refund(c *fiber.Ctx) error {
	return h.mutate(c, h.ledger.Refund)
}

func (h *WalletHandler) Reconcile(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil || studentID <= 0 {
		return utils.BadRequest(c, "invalid student id")
	}

	report, err := h.ledger.Reconcile(c.Context(), claims.TenantID, uint(studentID))
	if err != nil {
		return mapLedgerError(c, err)
	}
	return utils.Success(c, fiber.Map{"report": report})
}

func (h *WalletHandler) mutate(c *fiber.Ctx, op ledgerOp) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil || studentID <= 0 {
		return utils.BadRequest(c, "invalid student id")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	view, err := op(c.Context(), claims.TenantID, uint(studentID), input.AmountCents, input.RequestID, input.Meta)
	if err != nil {
		return mapLedgerError(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": view})
}

// mapLedgerError translates the error taxonomy to HTTP statuses.
func mapLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, ledger.ErrWalletNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return utils.UnprocessableEntity(c, err.Error())
	case errors.Is(err, repositories.ErrTxConflict):
		return utils.Conflict(c, "operation conflicted with concurrent updates, retry")
	default:
		return utils.InternalError(c, "operation failed")
	}
}
