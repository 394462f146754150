package postgres

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/domain/entity"
)

func TestEncodeAddress_VaciaEsNull(t *testing.T) {
	b, err := encodeAddress(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = encodeAddress(&entity.Address{})
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestEncodeAddress_Jsonb(t *testing.T) {
	in := &entity.Address{Street: "Rua das Flores", Number: "10", CEP: "01001-000", Reference: "portão azul"}
	b, err := encodeAddress(in)
	require.NoError(t, err)

	var out entity.Address
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, *in, out)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	require.NotNil(t, nullIfEmpty("pix"))
	assert.Equal(t, "pix", *nullIfEmpty("pix"))
}
