package entity

import (
	"strconv"
	"time"
)

// Order tarixiy buyurtma qatori (tb_pedidos_clientes_segmentos_produtos)
type Order struct {
	CEP        string            `json:"cep"`
	TaxID      string            `json:"crf_tratado"`
	ClientName string            `json:"nome_tratado"`
	Vendor     string            `json:"cod_vendedor_nome"`
	CodSKU     string            `json:"cod_sku,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Price is one row of the price table.
type Price struct {
	CodSKU     string            `json:"cod_sku"`
	Value      *float64          `json:"preco"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Product is one row of the official portfolio.
type Product struct {
	CodSKU      string            `json:"cod_sku"`
	Description string            `json:"sku_descricao"`
	Crop        string            `json:"cultura,omitempty"`
	Segment     string            `json:"segmento,omitempty"`
	N           *float64          `json:"N"`
	P           *float64          `json:"P"`
	K           *float64          `json:"K"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// NPK returns the nutrient vector with missing values as zero.
func (p Product) NPK() [3]float64 {
	return [3]float64{valueOrZero(p.N), valueOrZero(p.P), valueOrZero(p.K)}
}

// NPKLabel renders "N-P-K", using N/A for missing values.
func (p Product) NPKLabel() string {
	return formatNutrient(p.N) + "-" + formatNutrient(p.P) + "-" + formatNutrient(p.K)
}

// Catalog uchta jadvalning xotiradagi nusxasi
type Catalog struct {
	Orders   []Order
	Prices   []Price
	Products []Product
	LoadedAt time.Time
	Source   string
}

// IsEmpty reports whether no table has rows.
func (c *Catalog) IsEmpty() bool {
	return c == nil || (len(c.Orders) == 0 && len(c.Prices) == 0 && len(c.Products) == 0)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func formatNutrient(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
