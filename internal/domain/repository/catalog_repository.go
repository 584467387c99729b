package repository

import (
	"context"

	"github.com/agrofel/sales-agent/internal/domain/entity"
)

// CatalogSource loads the three catalog tables from somewhere (files, a database).
type CatalogSource interface {
	Load(ctx context.Context) (*entity.Catalog, error)
	Name() string
}

// CatalogRepository mahsulot, narx va buyurtmalar bo'yicha qidiruv
type CatalogRepository interface {
	// FindProductsByName sku_descricao bo'yicha katta-kichik harfga qaramay qidiradi
	FindProductsByName(ctx context.Context, name string) ([]entity.Product, error)

	// FindSimilarByNPK NPK bo'yicha eng yaqin 3 ta mahsulot
	FindSimilarByNPK(ctx context.Context, codSKU string) ([]entity.Product, error)

	GetPrice(ctx context.Context, codSKU string) (*entity.Price, error)

	// FindVendorByCEP CEP bo'yicha eng ko'p uchragan sotuvchi
	FindVendorByCEP(ctx context.Context, cep string) (string, error)

	RecommendByCrop(ctx context.Context, crop string) ([]entity.Product, error)

	// QuoteOrder aniq nom bo'yicha mahsulotni topib, umumiy narxni hisoblaydi
	QuoteOrder(ctx context.Context, req entity.OrderRequest) (*entity.Quote, error)

	ClientNameByTaxID(ctx context.Context, taxID string) (string, error)

	Crops(ctx context.Context) ([]string, error)

	// Reload katalogni manbadan qayta yuklaydi
	Reload(ctx context.Context) error
}
