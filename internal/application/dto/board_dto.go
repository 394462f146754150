package dto

// BoardColumn columna del tablero con sus pedidos.
type BoardColumn struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Orders []OrderResponse `json:"orders"`
}

// BoardResponse foto completa del tablero del usuario.
type BoardResponse struct {
	Columns          []BoardColumn       `json:"columns"`
	Tables           TablesResponse      `json:"tables"`
	Stats            *DailyStatsResponse `json:"stats"`
	NeedsCashOpening bool                `json:"needs_cash_opening"`
	NextOrderNumber  int                 `json:"next_order_number"`
}

// RenameColumnRequest nuevo título de una columna.
type RenameColumnRequest struct {
	Title string `json:"title" validate:"required"`
}
