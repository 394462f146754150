package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/balcao-digital-api/internal/application/auth"
	"github.com/jhoicas/balcao-digital-api/internal/application/board"
	"github.com/jhoicas/balcao-digital-api/internal/application/orders"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/application/report"
	"github.com/jhoicas/balcao-digital-api/internal/application/stats"
	"github.com/jhoicas/balcao-digital-api/internal/application/tables"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Board     *board.Service
	OrdersUC  *orders.UseCase
	TablesUC  *tables.UseCase
	StatsUC   *stats.UseCase
	ReportUC  *report.UseCase
	CEP       ports.CEPLookup
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	boardHandler := NewBoardHandler(deps.Board)
	protected.Get("/board", boardHandler.Get)
	protected.Post("/board/reload", boardHandler.Reload)
	protected.Put("/board/columns/:column", boardHandler.RenameColumn)

	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Board, deps.OrdersUC, deps.ReportUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Post("/:id/move", orderHandler.Move)
	ordersGroup.Post("/:id/notify", orderHandler.Notify)
	ordersGroup.Get("/:id/invoice.pdf", orderHandler.Invoice)

	tablesGroup := protected.Group("/tables")
	tableHandler := NewTableHandler(deps.TablesUC, deps.Board)
	tablesGroup.Get("/", tableHandler.List)
	tablesGroup.Delete("/", tableHandler.DeleteAll)
	tablesGroup.Post("/configure", tableHandler.Configure)
	tablesGroup.Patch("/:id/status", tableHandler.SetStatus)

	statsGroup := protected.Group("/stats")
	statsHandler := NewStatsHandler(deps.StatsUC, deps.Board)
	statsGroup.Get("/today", statsHandler.Today)
	statsGroup.Post("/cash-opening", statsHandler.OpenCashRegister)
	statsGroup.Post("/reset-check", statsHandler.ResetCheck)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/daily.pdf", reportHandler.DailyPDF)
	reports.Get("/daily.xml", reportHandler.DailyXML)

	if deps.CEP != nil {
		protected.Get("/cep/:cep", NewCEPHandler(deps.CEP).Lookup)
	}
}
