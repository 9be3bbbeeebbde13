package handlers

import (
	"errors"

	"cantina/internal/repositories"
	"cantina/internal/services/ledger"
	"cantina/internal/services/order"
	"cantina/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orders: orderService}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input order.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.orders.Create(c.Context(), claims.TenantID, input)
	if err != nil {
		return mapOrderError(c, err)
	}
	return utils.Success(c, result)
}

func (h *OrderHandler) Fulfill(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	updated, err := h.orders.Fulfill(c.Context(), claims.TenantID, uint(orderID))
	if err != nil {
		return mapOrderError(c, err)
	}
	return utils.Success(c, fiber.Map{"order": updated})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	updated, err := h.orders.Cancel(c.Context(), claims.TenantID, uint(orderID), claims.ActorID)
	if err != nil {
		return mapOrderError(c, err)
	}
	return utils.Success(c, fiber.Map{"order": updated})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	claims, err := extractTenantClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	filter := repositories.OrderFilter{
		StudentID: uint(c.QueryInt("studentId")),
		Status:    c.Query("status"),
	}
	orders, err := h.orders.List(c.Context(), claims.TenantID, filter)
	if err != nil {
		return utils.InternalError(c, "failed to list orders")
	}
	return utils.Success(c, fiber.Map{"orders": orders})
}

func mapOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, order.ErrInvalidItems):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, order.ErrInvalidOrderState):
		return utils.Conflict(c, err.Error())
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
