// Command notifier consume la cola de avisos y los entrega por WhatsApp vía Twilio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/broker"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/notify"
	"github.com/jhoicas/balcao-digital-api/pkg/config"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("notifier")

	twilio, err := notify.NewTwilioNotifier(cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken, cfg.Notify.TwilioWhatsAppFrom, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Twilio")
	}

	conn, err := broker.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("RabbitMQ")
	}
	defer conn.Close()

	consumer, err := broker.NewConsumer(conn, cfg.RabbitMQ.Queue, 4, twilio, log)
	if err != nil {
		log.Fatal().Err(err).Msg("consumidor")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("consumidor finalizado")
		return
	}
	log.Info().Msg("notifier detenido")
}
