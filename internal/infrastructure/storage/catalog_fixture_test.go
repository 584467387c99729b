package storage

import "github.com/agrofel/sales-agent/internal/domain/entity"

func f(v float64) *float64 { return &v }

func testCatalog() *entity.Catalog {
	return &entity.Catalog{
		Orders: []entity.Order{
			{CEP: "01310100", TaxID: "12345678000190", ClientName: "Fazenda Boa Vista", Vendor: "V02 - Maria"},
			{CEP: "01310100", TaxID: "12345678000190", ClientName: "Fazenda Boa Vista", Vendor: "V01 - Joao"},
			{CEP: "01310100", TaxID: "98765432100", ClientName: "Sitio Sao Jose", Vendor: "V02 - Maria"},
			{CEP: "99999000", TaxID: "11122233344", ClientName: "Agro Sul", Vendor: "V03 - Ana"},
			{CEP: "99999000", TaxID: "11122233344", ClientName: "Agro Sul", Vendor: "V01 - Joao"},
		},
		Prices: []entity.Price{
			{CodSKU: "100", Value: f(150.5)},
			{CodSKU: "200", Value: f(99.9)},
			{CodSKU: "300"},
			{CodSKU: "100", Value: f(999)},
		},
		Products: []entity.Product{
			{CodSKU: "100", Description: "Super Adubo 10-10-10", Crop: "Soja", Segment: "Graos", N: f(10), P: f(10), K: f(10)},
			{CodSKU: "200", Description: "Fosfato Premium", Crop: "Milho", Segment: "Graos", N: f(0), P: f(46), K: f(0)},
			{CodSKU: "300", Description: "Potassio Max", Crop: "Cana", Segment: "Cana", N: f(0), P: f(0), K: f(60)},
			{CodSKU: "400", Description: "Super Adubo 12-12-12", Crop: "soja", Segment: "Graos", N: f(12), P: f(12), K: f(12)},
			{CodSKU: "500", Description: "Base Organica", Crop: "Cafe", Segment: "Perenes"},
		},
		Source: "static",
	}
}
