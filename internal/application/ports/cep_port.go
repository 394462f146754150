package ports

import (
	"context"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
)

// CEPLookup consulta de dirección por código postal. Devuelve domain.ErrNotFound cuando
// el CEP no existe o el servicio falla; el cliente cae en carga manual.
type CEPLookup interface {
	Lookup(ctx context.Context, cep string) (*dto.CEPAddress, error)
}
