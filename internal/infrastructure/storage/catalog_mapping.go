package storage

import (
	"time"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/infrastructure/parser"
)

// Jadval ustunlari nomlari (asl fayllardagidek)
const (
	colCEP        = "cep"
	colTaxID      = "crf_tratado"
	colClientName = "Nome_tratado"
	colVendor     = "Cod_Vendedor_Nome"
	colCodSKU     = "cod_sku"
	colPrice      = "preco"
	colDesc       = "sku_descricao"
	colCrop       = "cultura"
	colSegment    = "segmento"
	colN          = "N"
	colP          = "P"
	colK          = "K"
)

// buildCatalog uchta jadvalni domen tiplariga o'giradi. nil jadval bo'sh hisoblanadi.
func buildCatalog(source string, orders, prices, portfolio *parser.Table) *entity.Catalog {
	return &entity.Catalog{
		Orders:   ordersFromTable(orders),
		Prices:   pricesFromTable(prices),
		Products: productsFromTable(portfolio),
		LoadedAt: time.Now(),
		Source:   source,
	}
}

func ordersFromTable(t *parser.Table) []entity.Order {
	if t == nil {
		return nil
	}
	out := make([]entity.Order, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, entity.Order{
			CEP:        parser.DigitsOnly(parser.NormalizeID(t.Value(row, colCEP))),
			TaxID:      parser.DigitsOnly(parser.NormalizeID(t.Value(row, colTaxID))),
			ClientName: t.Value(row, colClientName),
			Vendor:     t.Value(row, colVendor),
			CodSKU:     parser.NormalizeID(t.Value(row, colCodSKU)),
			Attributes: t.Extras(row, colCEP, colTaxID, colClientName, colVendor, colCodSKU),
		})
	}
	return out
}

func pricesFromTable(t *parser.Table) []entity.Price {
	if t == nil {
		return nil
	}
	out := make([]entity.Price, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, entity.Price{
			CodSKU:     parser.NormalizeID(t.Value(row, colCodSKU)),
			Value:      parser.ParseNullableNumber(t.Value(row, colPrice)),
			Attributes: t.Extras(row, colCodSKU, colPrice),
		})
	}
	return out
}

func productsFromTable(t *parser.Table) []entity.Product {
	if t == nil {
		return nil
	}
	out := make([]entity.Product, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, entity.Product{
			CodSKU:      parser.NormalizeID(t.Value(row, colCodSKU)),
			Description: t.Value(row, colDesc),
			Crop:        t.Value(row, colCrop),
			Segment:     t.Value(row, colSegment),
			N:           parser.ParseNullableNumber(t.Value(row, colN)),
			P:           parser.ParseNullableNumber(t.Value(row, colP)),
			K:           parser.ParseNullableNumber(t.Value(row, colK)),
			Attributes:  t.Extras(row, colCodSKU, colDesc, colCrop, colSegment, colN, colP, colK),
		})
	}
	return out
}
