package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderRequest(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		ok       bool
		quantity int
		product  string
	}{
		{"units and de", "Quero 20 unidades de 09 25 15 C/MICRO", true, 20, "09 25 15 C/MICRO"},
		{"bags", "preciso de 5 bags de Super Adubo", true, 5, "Super Adubo"},
		{"no unit", "3 Fosfato Premium", true, 3, "Fosfato Premium"},
		{"singular unit", "1 saco de ureia", true, 1, "ureia"},
		{"upper case", "10 CAIXAS DE Potassio", true, 10, "Potassio"},
		{"no number", "quais produtos para soja?", false, 0, ""},
		{"short name", "quero 2 kg", false, 0, ""},
		{"zero quantity", "0 unidades de Fosfato", false, 0, ""},
		{"number at end", "tenho 15", false, 0, ""},
		{"huge number", "99999999999999999999999 unidades de Fosfato", false, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, ok := ParseOrderRequest(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.quantity, req.Quantity)
			assert.Equal(t, tc.product, req.ProductName)
		})
	}
}
