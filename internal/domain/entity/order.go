package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column columna del tablero kanban (etapa del ciclo de vida del pedido).
type Column string

const (
	ColumnPedidos     Column = "pedidos"
	ColumnPreparando  Column = "preparando"
	ColumnPronto      Column = "pronto"
	ColumnFinalizados Column = "finalizados"
)

// Columns en el orden en que se muestran en el tablero.
var Columns = []Column{ColumnPedidos, ColumnPreparando, ColumnPronto, ColumnFinalizados}

// Valid indica si la columna existe.
func (c Column) Valid() bool {
	switch c {
	case ColumnPedidos, ColumnPreparando, ColumnPronto, ColumnFinalizados:
		return true
	}
	return false
}

// Terminal indica si la columna cierra el ciclo del pedido.
func (c Column) Terminal() bool { return c == ColumnFinalizados }

// DefaultTitle título inicial de la columna en el tablero.
func (c Column) DefaultTitle() string {
	switch c {
	case ColumnPedidos:
		return "Pedidos"
	case ColumnPreparando:
		return "Preparando"
	case ColumnPronto:
		return "Pronto para entrega"
	case ColumnFinalizados:
		return "Pedidos finalizados"
	}
	return string(c)
}

// CardColors paleta de colores de tarjeta (cosmético).
var CardColors = []string{"pink", "purple", "indigo", "cyan", "teal", "emerald", "yellow", "orange"}

// PaymentMethod forma de pago. Los valores persistidos son los del producto (pt-BR).
type PaymentMethod string

const (
	PaymentNone   PaymentMethod = ""
	PaymentPix    PaymentMethod = "pix"
	PaymentCash   PaymentMethod = "dinheiro"
	PaymentDebit  PaymentMethod = "debito"
	PaymentCredit PaymentMethod = "credito"
)

// Valid acepta también PaymentNone (pago no informado).
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentNone, PaymentPix, PaymentCash, PaymentDebit, PaymentCredit:
		return true
	}
	return false
}

// Label etiqueta impresa en la nota del pedido.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentPix:
		return "PIX"
	case PaymentCash:
		return "Dinheiro"
	case PaymentDebit:
		return "Cartão de Débito"
	case PaymentCredit:
		return "Cartão de Crédito"
	}
	return ""
}

// Address dirección de entrega (delivery).
type Address struct {
	Street    string `json:"street"`
	Number    string `json:"number"`
	CEP       string `json:"cep"`
	Reference string `json:"reference"`
}

// IsEmpty true si ningún campo tiene contenido.
func (a *Address) IsEmpty() bool {
	if a == nil {
		return true
	}
	return strings.TrimSpace(a.Street) == "" && strings.TrimSpace(a.Number) == "" &&
		strings.TrimSpace(a.CEP) == "" && strings.TrimSpace(a.Reference) == ""
}

// Order pedido del balcão. CompletedAt está definido si y solo si Column == finalizados.
type Order struct {
	ID             string
	UserID         string
	OrderNumber    int
	Name           string
	Description    string
	Total          decimal.Decimal
	PaymentMethod  PaymentMethod
	Phone          string
	TableNumber    *int
	ReceivedAmount *decimal.Decimal
	Change         *decimal.Decimal
	Address        *Address
	Column         Column
	CardColor      string
	CreatedAt      time.Time
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}

// HasAddress true si el pedido es delivery.
func (o *Order) HasAddress() bool { return !o.Address.IsEmpty() }

// HasPhone true si hay un teléfono de contacto no vacío.
func (o *Order) HasPhone() bool { return strings.TrimSpace(o.Phone) != "" }

// HasTable true si el pedido está asociado a una mesa.
func (o *Order) HasTable() bool { return o.TableNumber != nil && *o.TableNumber > 0 }

// ProcessingTime tiempo entre la creación y la finalización (cero si no finalizó).
func (o *Order) ProcessingTime() time.Duration {
	if o.CompletedAt == nil {
		return 0
	}
	return o.CompletedAt.Sub(o.CreatedAt)
}
