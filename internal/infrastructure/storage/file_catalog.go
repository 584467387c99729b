package storage

import (
	"context"
	"fmt"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/infrastructure/parser"
)

// FileCatalogSource katalogni uchta CSV/XLSX fayldan o'qiydi
type FileCatalogSource struct {
	parser        *parser.ExcelParser
	ordersPath    string
	pricesPath    string
	portfolioPath string
}

// NewFileCatalogSource creates a source over the orders, prices and portfolio files.
func NewFileCatalogSource(p *parser.ExcelParser, ordersPath, pricesPath, portfolioPath string) *FileCatalogSource {
	return &FileCatalogSource{
		parser:        p,
		ordersPath:    ordersPath,
		pricesPath:    pricesPath,
		portfolioPath: portfolioPath,
	}
}

func (s *FileCatalogSource) Name() string { return "file" }

// Load reads all three files; any failure fails the whole load.
func (s *FileCatalogSource) Load(ctx context.Context) (*entity.Catalog, error) {
	paths := []string{s.ordersPath, s.pricesPath, s.portfolioPath}
	tables := make([]*parser.Table, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table, err := s.parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		tables[i] = table
	}
	return buildCatalog(s.Name(), tables[0], tables[1], tables[2]), nil
}

// StaticCatalogSource serves an already built catalog.
type StaticCatalogSource struct {
	Catalog *entity.Catalog
	Err     error
}

// NewStaticCatalogSource wraps a catalog, mostly for tests and tooling.
func NewStaticCatalogSource(c *entity.Catalog) *StaticCatalogSource {
	return &StaticCatalogSource{Catalog: c}
}

func (s *StaticCatalogSource) Name() string { return "static" }

func (s *StaticCatalogSource) Load(ctx context.Context) (*entity.Catalog, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Catalog, nil
}
