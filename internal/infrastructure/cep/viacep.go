// Package cep consulta direcciones por CEP en ViaCEP.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/balcao-digital-api/internal/application/dto"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/pkg/whatsapp"
)

var _ ports.CEPLookup = (*ViaCEPClient)(nil)

// DefaultBaseURL endpoint público de ViaCEP.
const DefaultBaseURL = "https://viacep.com.br/ws"

// ViaCEPClient adaptador HTTP sobre ViaCEP.
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewViaCEPClient construye el cliente. baseURL vacío usa DefaultBaseURL.
func NewViaCEPClient(baseURL string, timeout time.Duration) *ViaCEPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ViaCEPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       any    `json:"erro"`
}

// NormalizeCEP deja solo dígitos; exige 8.
func NormalizeCEP(raw string) (string, error) {
	d := whatsapp.Digits(raw)
	if len(d) != 8 {
		return "", fmt.Errorf("cep %q: %w", raw, domain.ErrInvalidInput)
	}
	return d, nil
}

// FormatCEP "12345678" → "12345-678". Si no tiene 8 dígitos devuelve la entrada.
func FormatCEP(raw string) string {
	d := whatsapp.Digits(raw)
	if len(d) != 8 {
		return raw
	}
	return d[:5] + "-" + d[5:]
}

// Lookup consulta el CEP. CEP inexistente o fallo del servicio → domain.ErrNotFound.
func (c *ViaCEPClient) Lookup(ctx context.Context, raw string) (*dto.CEPAddress, error) {
	cep, err := NormalizeCEP(raw)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+cep+"/json/", nil)
	if err != nil {
		return nil, fmt.Errorf("viacep: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep: %v: %w", err, domain.ErrNotFound)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viacep: HTTP %d: %w", resp.StatusCode, domain.ErrNotFound)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("viacep: respuesta inválida: %v: %w", err, domain.ErrNotFound)
	}
	// ViaCEP responde 200 con {"erro": true} (o "true" en versiones viejas).
	if body.Erro != nil && body.Erro != false {
		return nil, fmt.Errorf("viacep: cep %s: %w", cep, domain.ErrNotFound)
	}

	street := body.Logradouro
	if body.Bairro != "" {
		if street != "" {
			street += ", "
		}
		street += body.Bairro
	}
	return &dto.CEPAddress{
		CEP:          FormatCEP(cep),
		Street:       street,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
