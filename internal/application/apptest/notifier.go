package apptest

import (
	"context"
	"sync"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
)

// Notifier registra los avisos enviados; Err simula un canal caído.
type Notifier struct {
	mu   sync.Mutex
	Sent []ports.WhatsAppMessage
	Err  error
}

// Notify implementa ports.Notifier.
func (n *Notifier) Notify(_ context.Context, msg ports.WhatsAppMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, msg)
	return nil
}

// Messages copia de lo enviado.
func (n *Notifier) Messages() []ports.WhatsAppMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.WhatsAppMessage(nil), n.Sent...)
}
