// Package notify implementa los canales de aviso por WhatsApp al cliente final.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
	"github.com/jhoicas/balcao-digital-api/pkg/whatsapp"
)

var (
	_ ports.Notifier = (*LinkNotifier)(nil)
	_ ports.Notifier = (*TwilioNotifier)(nil)
)

// ErrNoPhone el mensaje no tiene teléfono de destino.
var ErrNoPhone = errors.New("notify: mensaje sin teléfono")

// LinkNotifier no envía nada: el operador abre el link wa.me desde el tablero. Solo registra.
type LinkNotifier struct {
	log *logger.Logger
}

// NewLinkNotifier crea el canal por defecto.
func NewLinkNotifier(log *logger.Logger) *LinkNotifier {
	return &LinkNotifier{log: log.Component("notify.link")}
}

// Notify registra el link generado.
func (n *LinkNotifier) Notify(_ context.Context, msg ports.WhatsAppMessage) error {
	if msg.Phone == "" {
		return ErrNoPhone
	}
	n.log.Info().
		Str("user_id", msg.UserID).
		Int("order_number", msg.OrderNumber).
		Str("kind", msg.Kind).
		Str("link", whatsapp.Link(msg.Phone, msg.Text)).
		Msg("aviso listo para enviar")
	return nil
}

// MessageCreator subconjunto de la API REST de Twilio usado para enviar mensajes.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier envía el aviso por la API de WhatsApp de Twilio.
type TwilioNotifier struct {
	api  MessageCreator
	from string
	log  *logger.Logger
}

// NewTwilioNotifier crea el canal con credenciales de cuenta. from es el número habilitado en E.164.
func NewTwilioNotifier(accountSID, authToken, from string, log *logger.Logger) (*TwilioNotifier, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("notify: credenciales de Twilio incompletas")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioNotifierWithAPI(client.Api, from, log), nil
}

// NewTwilioNotifierWithAPI permite inyectar la API (tests).
func NewTwilioNotifierWithAPI(api MessageCreator, from string, log *logger.Logger) *TwilioNotifier {
	return &TwilioNotifier{api: api, from: from, log: log.Component("notify.twilio")}
}

// Notify envía el texto a whatsapp:+<phone>.
func (n *TwilioNotifier) Notify(ctx context.Context, msg ports.WhatsAppMessage) error {
	if msg.Phone == "" {
		return ErrNoPhone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + whatsapp.Normalize(msg.Phone))
	params.SetFrom("whatsapp:+" + whatsapp.Normalize(n.from))
	params.SetBody(msg.Text)

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: pedido #%d: %w", msg.OrderNumber, err)
	}
	ev := n.log.Info().Str("user_id", msg.UserID).Int("order_number", msg.OrderNumber)
	if resp != nil && resp.Sid != nil {
		ev = ev.Str("sid", *resp.Sid)
	}
	ev.Msg("aviso enviado por Twilio")
	return nil
}
