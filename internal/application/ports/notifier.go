package ports

import "context"

// WhatsAppMessage aviso al cliente final de un pedido.
type WhatsAppMessage struct {
	UserID      string `json:"user_id"`
	OrderID     string `json:"order_id"`
	OrderNumber int    `json:"order_number"`
	Kind        string `json:"kind"`  // delivery | pickup | status
	Phone       string `json:"phone"` // dígitos con prefijo 55
	Text        string `json:"text"`
}

// Notifier puerto de salida para avisos por WhatsApp (link, Twilio o cola RabbitMQ).
type Notifier interface {
	Notify(ctx context.Context, msg WhatsAppMessage) error
}
