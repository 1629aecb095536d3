package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordesk/orders-api/internal/application/dto"
	"github.com/ordesk/orders-api/internal/application/orders"
)

// OrderHandler maneja el flujo de pedidos (protegido).
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Intake godoc
// @Summary      Recibir un pedido (intake)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntakeRequest  true  "mail: texto del pedido"
// @Success      201   {object}  dto.IntakeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Intake(c *fiber.Ctx) error {
	var in dto.IntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Intake(c.Context(), in.Mail)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Approve godoc
// @Summary      Aprobar un pedido recibido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	order, err := h.uc.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"order":         order,
		"payment_order": "Orden de pago\n\n" + order.OrderText + "\n\nContinúe con el pago para despachar",
	})
}

// MarkPaid godoc
// @Summary      Registrar el pago de un pedido aprobado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/payment [post]
func (h *OrderHandler) MarkPaid(c *fiber.Ctx) error {
	order, err := h.uc.MarkPaid(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// Fulfill godoc
// @Summary      Despachar un pedido (descuenta stock, todo o nada)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill [post]
func (h *OrderHandler) Fulfill(c *fiber.Ctx) error {
	order, failures, err := h.uc.Fulfill(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if len(failures) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    "fulfillment fallido: stock insuficiente",
			"failures": failures,
			"order":    order,
		})
	}
	return c.JSON(fiber.Map{
		"confirmation": "Pedido despachado\n\n" + order.OrderText,
		"order":        order,
	})
}

// DeliveryComplete godoc
// @Summary      Marcar un pedido como entregado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/delivered [post]
func (h *OrderHandler) DeliveryComplete(c *fiber.Ctx) error {
	order, err := h.uc.DeliveryComplete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// List godoc
// @Summary      Log paginado de pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "página (desde 1)"
// @Param        per_page  query  int  false  "tamaño de página"
// @Success      200  {object}  dto.OrderPageResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	req := dto.PageRequest{Page: c.QueryInt("page", 1), PerPage: c.QueryInt("per_page", 50)}
	page, err := h.uc.List(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// Oversight godoc
// @Summary      Métricas del flujo e insights
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OversightResponse
// @Router       /api/oversight [get]
func (h *OrderHandler) Oversight(c *fiber.Ctx) error {
	result, err := h.uc.Oversight(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
