// @title                       Balcão Digital API
// @version                     1.0
// @description                 API del balcão digital: tablero de pedidos, mesas, caja diaria y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/balcao-digital-api/docs"
	"github.com/jhoicas/balcao-digital-api/internal/application/auth"
	"github.com/jhoicas/balcao-digital-api/internal/application/board"
	"github.com/jhoicas/balcao-digital-api/internal/application/orders"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/application/report"
	"github.com/jhoicas/balcao-digital-api/internal/application/stats"
	"github.com/jhoicas/balcao-digital-api/internal/application/tables"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/broker"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/cep"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/balcao-digital-api/internal/infrastructure/pdf"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/postgres"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/balcao-digital-api/internal/interfaces/http"
	"github.com/jhoicas/balcao-digital-api/pkg/config"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc := cfg.App.Location()
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{Timezone: loc.String()})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	tableRepo := postgres.NewTableRepository(pool)
	statsRepo := postgres.NewDailyStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Canal de avisos por WhatsApp
	notifier, amqpConn := buildNotifier(cfg, log)
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	statsUC := stats.NewUseCase(txRunner, statsRepo, orderRepo, stats.Config{
		Location:  loc,
		ResetHour: cfg.Daily.ResetHour,
	}, log)
	ordersUC := orders.NewUseCase(txRunner, orderRepo, statsUC, notifier, log)
	tablesUC := tables.NewUseCase(txRunner, tableRepo, log)
	boardSvc := board.NewService(ordersUC, statsUC, orderRepo, tableRepo, log)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	reportUC := report.NewUseCase(orderRepo, statsRepo, userRepo, report.Generators{
		DailyPDF:   pdfGenerator,
		DailyXML:   xmlexport.NewDailyReportExporter(),
		InvoicePDF: pdfGenerator,
	}, loc)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Cierre diario pendiente de antes del arranque
	if reset, err := statsUC.CheckAndResetAll(ctx); err != nil {
		log.Error().Err(err).Msg("chequeo de reset al iniciar")
	} else if len(reset) > 0 {
		log.Info().Strs("user_ids", reset).Msg("reset diario aplicado al iniciar")
	}

	var sched *scheduler.Scheduler
	if !cfg.Daily.SchedulerDisabled {
		sched, err = scheduler.New(scheduler.Config{
			ResetCheckSpec: cfg.Daily.ResetCheckSpec,
			StatsSyncSpec:  cfg.Daily.StatsSyncSpec,
			Location:       loc,
		}, statsUC, boardSvc, log)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Board:     boardSvc,
		OrdersUC:  ordersUC,
		TablesUC:  tablesUC,
		StatsUC:   statsUC,
		ReportUC:  reportUC,
		CEP:       cep.NewViaCEPClient(cfg.CEP.BaseURL, cfg.CEP.Timeout),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// buildNotifier elige el canal según NOTIFY_CHANNEL. Si Twilio o RabbitMQ no están disponibles
// cae en el canal link para no bloquear el tablero.
func buildNotifier(cfg *config.Config, log *logger.Logger) (ports.Notifier, *amqp.Connection) {
	switch cfg.Notify.Channel {
	case "twilio":
		n, err := notify.NewTwilioNotifier(cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken, cfg.Notify.TwilioWhatsAppFrom, log)
		if err == nil {
			return n, nil
		}
		log.Warn().Err(err).Msg("Twilio no configurado, se usa el canal link")
	case "rabbitmq":
		conn, err := broker.Dial(cfg.RabbitMQ.URL)
		if err == nil {
			pub, perr := broker.NewPublisher(conn, cfg.RabbitMQ.Queue, log)
			if perr == nil {
				return pub, conn
			}
			_ = conn.Close()
			err = perr
		}
		log.Warn().Err(err).Msg("RabbitMQ no disponible, se usa el canal link")
	}
	return notify.NewLinkNotifier(log), nil
}
