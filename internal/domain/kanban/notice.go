package kanban

import "github.com/jhoicas/balcao-digital-api/internal/domain/entity"

// NoticeKind tipo de aviso al cliente cuando el pedido se finaliza.
type NoticeKind string

const (
	NoticeNone     NoticeKind = ""
	NoticeDelivery NoticeKind = "delivery"
	NoticePickup   NoticeKind = "pickup"
)

// Notice aviso a enviar por WhatsApp.
type Notice struct {
	Kind    NoticeKind
	Phone   string
	Message string
}

// Mensajes enviados al cliente (textos del producto, en portugués).
const (
	MessageDelivery = "Seu pedido foi e em instantes estará na sua casa, bom apetite!"
	MessagePickup   = "Seu pedido está pronto, já pode vir retirar"

	messagePreparing = "Seu pedido está em preparo, em momentos estará pronto 😊"
	messageReady     = "Seu pedido foi embalado 📦"
	messageThanks    = "Obrigado pelo seu pedido!"
)

// SelectNotice decide el aviso de finalización: pedidos de mesa no avisan;
// con dirección se avisa la entrega; solo con teléfono se avisa el retiro.
func SelectNotice(o *entity.Order) Notice {
	if !o.HasPhone() || o.HasTable() {
		return Notice{}
	}
	if o.HasAddress() {
		return Notice{Kind: NoticeDelivery, Phone: o.Phone, Message: MessageDelivery}
	}
	return Notice{Kind: NoticePickup, Phone: o.Phone, Message: MessagePickup}
}

// StatusMessage mensaje manual según la columna actual del pedido.
func StatusMessage(c entity.Column) string {
	switch c {
	case entity.ColumnPreparando:
		return messagePreparing
	case entity.ColumnPronto:
		return messageReady
	default:
		return messageThanks
	}
}
