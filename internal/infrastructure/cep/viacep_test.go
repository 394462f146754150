package cep_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/domain"
	"github.com/jhoicas/balcao-digital-api/internal/infrastructure/cep"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/01001000/json/":
			_, _ = w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/99999999/json/":
			_, _ = w.Write([]byte(`{"erro": true}`))
		case "/88888888/json/":
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup_Encontrado(t *testing.T) {
	c := cep.NewViaCEPClient(newServer(t).URL, time.Second)

	addr, err := c.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "01001-000", addr.CEP)
	assert.Equal(t, "Praça da Sé, Sé", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestLookup_NoEncontrado(t *testing.T) {
	c := cep.NewViaCEPClient(newServer(t).URL, time.Second)

	for _, in := range []string{"99999-999", "88888888", "12345678"} {
		_, err := c.Lookup(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrNotFound, in)
	}
}

func TestLookup_ServicioCaido(t *testing.T) {
	srv := newServer(t)
	url := srv.URL
	srv.Close()

	_, err := cep.NewViaCEPClient(url, time.Second).Lookup(context.Background(), "01001000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormalizeYFormat(t *testing.T) {
	d, err := cep.NormalizeCEP(" 01001-000 ")
	require.NoError(t, err)
	assert.Equal(t, "01001000", d)

	_, err = cep.NormalizeCEP("0100")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, "01001-000", cep.FormatCEP("01001000"))
	assert.Equal(t, "123", cep.FormatCEP("123"))
}
