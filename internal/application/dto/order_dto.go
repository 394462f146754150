package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

// AddressDTO dirección de entrega.
type AddressDTO struct {
	Street    string `json:"street"`
	Number    string `json:"number"`
	CEP       string `json:"cep"`
	Reference string `json:"reference"`
}

// CreateOrderRequest entrada para crear un pedido. Si llega ReceivedAmount sin Change, el troco se calcula.
type CreateOrderRequest struct {
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description" validate:"required"`
	Total          decimal.Decimal  `json:"total"`
	PaymentMethod  string           `json:"payment_method" validate:"omitempty,oneof=pix dinheiro debito credito"`
	Phone          string           `json:"phone"`
	TableNumber    *int             `json:"table_number"`
	ReceivedAmount *decimal.Decimal `json:"received_amount"`
	Change         *decimal.Decimal `json:"change"`
	Address        *AddressDTO      `json:"address"`
}

// UpdateOrderRequest reemplazo completo de los campos editables (last-write-wins).
type UpdateOrderRequest = CreateOrderRequest

// MoveOrderRequest destino de un movimiento en el tablero.
type MoveOrderRequest struct {
	Column string `json:"column" validate:"required,oneof=pedidos preparando pronto finalizados"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID             string           `json:"id"`
	OrderNumber    int              `json:"order_number"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Total          decimal.Decimal  `json:"total"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	PaymentLabel   string           `json:"payment_label,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	TableNumber    *int             `json:"table_number,omitempty"`
	ReceivedAmount *decimal.Decimal `json:"received_amount,omitempty"`
	Change         *decimal.Decimal `json:"change,omitempty"`
	Address        *AddressDTO      `json:"address,omitempty"`
	Column         string           `json:"column"`
	CardColor      string           `json:"card_color"`
	CreatedAt      time.Time        `json:"created_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
}

// OrderListResponse listado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int             `json:"total"`
}

// NotificationDTO aviso por WhatsApp que corresponde al pedido; Link abre wa.me con el texto.
type NotificationDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
	Sent    bool   `json:"sent"`
}

// MoveOrderResponse resultado de mover un pedido.
type MoveOrderResponse struct {
	Order        OrderResponse    `json:"order"`
	Finalized    bool             `json:"finalized"`
	Notification *NotificationDTO `json:"notification,omitempty"`
}

// FromOrder mapea la entidad a la respuesta.
func FromOrder(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		Name:           o.Name,
		Description:    o.Description,
		Total:          o.Total,
		PaymentMethod:  string(o.PaymentMethod),
		PaymentLabel:   o.PaymentMethod.Label(),
		Phone:          o.Phone,
		TableNumber:    o.TableNumber,
		ReceivedAmount: o.ReceivedAmount,
		Change:         o.Change,
		Column:         string(o.Column),
		CardColor:      o.CardColor,
		CreatedAt:      o.CreatedAt,
		CompletedAt:    o.CompletedAt,
	}
	if o.HasAddress() {
		resp.Address = &AddressDTO{
			Street:    o.Address.Street,
			Number:    o.Address.Number,
			CEP:       o.Address.CEP,
			Reference: o.Address.Reference,
		}
	}
	return resp
}

// FromOrders mapea una lista (nunca nil, para serializar []).
func FromOrders(list []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, FromOrder(o))
	}
	return out
}
