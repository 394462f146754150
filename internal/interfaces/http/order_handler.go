package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/board"
	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/orders"
	"github.com/jhoicas/balcao-digital-api/internal/application/report"
	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// OrderHandler pedidos: las mutaciones pasan por el tablero para mantenerlo en sync.
type OrderHandler struct {
	board   *board.Service
	orders  *orders.UseCase
	reports *report.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(b *board.Service, uc *orders.UseCase, reports *report.UseCase) *OrderHandler {
	return &OrderHandler{board: b, orders: uc, reports: reports}
}

// List godoc
// @Summary      Listar pedidos
// @Description  q filtra por nombre, descripción o teléfono sin distinguir acentos; "#12" busca por número.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        q    query  string  false  "búsqueda"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	list, err := h.orders.List(c.UserContext(), userID, c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	items := dto.FromOrders(list)
	return c.JSON(dto.OrderListResponse{Items: items, Total: len(items)})
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	o, err := h.orders.Get(c.UserContext(), userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateOrderRequest  true  "pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.board.AddOrder(c.UserContext(), userID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(o))
}

// Update godoc
// @Summary      Editar pedido
// @Description  Reemplaza los campos editables; la última escritura gana.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "pedido"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	o, err := h.board.UpdateOrder(c.UserContext(), userID, id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// Move godoc
// @Summary      Mover pedido de columna
// @Description  Al finalizar libera la mesa, actualiza la caja y devuelve el aviso de WhatsApp si corresponde.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "ID del pedido"
// @Param        body  body  dto.MoveOrderRequest  true  "columna destino"
// @Success      200   {object}  dto.MoveOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/move [post]
func (h *OrderHandler) Move(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.MoveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.board.MoveOrder(c.UserContext(), userID, id, entity.Column(in.Column))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MoveOrderResponse{
		Order:        dto.FromOrder(res.Order),
		Finalized:    res.Transition.Finalized,
		Notification: notificationDTO(res.Notification),
	})
}

// Notify godoc
// @Summary      Aviso de estado por WhatsApp
// @Description  Mensaje según la columna actual. send=true lo envía por el canal configurado; si no, solo devuelve el link wa.me.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "ID del pedido"
// @Param        send  query  bool    false  "enviar"
// @Success      200   {object}  dto.NotificationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/notify [post]
func (h *OrderHandler) Notify(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	n, err := h.orders.StatusNotification(c.UserContext(), userID, id, c.QueryBool("send"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notificationDTO(n))
}

// Invoice godoc
// @Summary      Nota de pedido en PDF
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/invoice.pdf [get]
func (h *OrderHandler) Invoice(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	b, o, err := h.reports.OrderInvoice(c.UserContext(), userID, id)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%d.pdf"`, o.OrderNumber))
	return c.Send(b)
}

func notificationDTO(n *orders.Notification) *dto.NotificationDTO {
	if n == nil {
		return nil
	}
	return &dto.NotificationDTO{Kind: n.Kind, Message: n.Message, Link: n.Link, Sent: n.Sent}
}
