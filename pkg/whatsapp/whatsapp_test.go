package whatsapp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/balcao-digital-api/pkg/whatsapp"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "5511912345678", whatsapp.Normalize("(11) 91234-5678"))
	assert.Equal(t, "5511912345678", whatsapp.Normalize("+55 11 91234-5678"))
	assert.Equal(t, "", whatsapp.Normalize("sem telefone"))
}

func TestLink(t *testing.T) {
	link := whatsapp.Link("11 91234-5678", "Seu pedido está pronto, já pode vir retirar")
	assert.Equal(t, "https://wa.me/5511912345678?text=Seu+pedido+est%C3%A1+pronto%2C+j%C3%A1+pode+vir+retirar", link)
	assert.Empty(t, whatsapp.Link("", "oi"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "+55 (11) 91234-5678", whatsapp.Format("11912345678"))
	assert.Equal(t, "+55 (11) 91234-5678", whatsapp.Format("5511912345678"))
	assert.Equal(t, "1234", whatsapp.Format("1234"))
}
