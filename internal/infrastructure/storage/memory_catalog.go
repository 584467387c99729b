package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/internal/infrastructure/parser"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/rs/zerolog"
)

type memoryCatalogRepository struct {
	source repository.CatalogSource
	log    zerolog.Logger

	mu      sync.RWMutex
	loaded  bool
	catalog *entity.Catalog
}

// NewMemoryCatalogRepository katalogni birinchi so'rovda yuklab, xotirada saqlaydi
func NewMemoryCatalogRepository(source repository.CatalogSource) repository.CatalogRepository {
	return &memoryCatalogRepository{
		source: source,
		log:    logger.Component("catalog"),
	}
}

// current returns the cached catalog, loading it on first use.
// A failed load is remembered as a nil catalog until Reload succeeds.
func (m *memoryCatalogRepository) current(ctx context.Context) *entity.Catalog {
	m.mu.RLock()
	if m.loaded {
		c := m.catalog
		m.mu.RUnlock()
		return c
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return m.catalog
	}

	c, err := m.source.Load(ctx)
	if err == nil && c == nil {
		err = entity.ErrCatalogUnavailable
	}
	if err != nil {
		m.log.Error().Err(err).Str("source", m.source.Name()).Msg("Katalogni yuklashda xatolik")
		c = nil
	} else {
		m.logLoaded(c, "Katalog yuklandi")
	}
	m.catalog = c
	m.loaded = true
	return c
}

// Reload swaps the cached catalog only when the source loads cleanly.
func (m *memoryCatalogRepository) Reload(ctx context.Context) error {
	c, err := m.source.Load(ctx)
	if err == nil && c == nil {
		err = entity.ErrCatalogUnavailable
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("Katalog qayta yuklanmadi, eski nusxa qoldi")
		return fmt.Errorf("reload catalog: %w: %w", entity.ErrCatalogUnavailable, err)
	}

	m.mu.Lock()
	m.catalog = c
	m.loaded = true
	m.mu.Unlock()

	m.logLoaded(c, "Katalog qayta yuklandi")
	return nil
}

func (m *memoryCatalogRepository) logLoaded(c *entity.Catalog, msg string) {
	if c.IsEmpty() {
		m.log.Warn().Str("source", m.source.Name()).Msg("Katalog bo'sh, barcha javoblar umumiy kontekst bilan")
		return
	}
	m.log.Info().
		Str("source", m.source.Name()).
		Int("orders", len(c.Orders)).
		Int("prices", len(c.Prices)).
		Int("products", len(c.Products)).
		Msg(msg)
}

// FindProductsByName sku_descricao ichida nomni qidiradi (katta-kichik harf farqsiz)
func (m *memoryCatalogRepository) FindProductsByName(ctx context.Context, name string) ([]entity.Product, error) {
	c := m.current(ctx)
	needle := strings.ToLower(strings.TrimSpace(name))
	if c == nil || needle == "" {
		return []entity.Product{}, nil
	}

	out := []entity.Product{}
	for _, p := range c.Products {
		if strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

type npkCandidate struct {
	product entity.Product
	dist    float64
}

// FindSimilarByNPK NPK vektori bo'yicha eng yaqin mahsulotlar
func (m *memoryCatalogRepository) FindSimilarByNPK(ctx context.Context, codSKU string) ([]entity.Product, error) {
	c := m.current(ctx)
	ref := parser.NormalizeID(codSKU)
	if c == nil || ref == "" {
		return []entity.Product{}, nil
	}

	var (
		refVector [3]float64
		found     bool
	)
	for _, p := range c.Products {
		if p.CodSKU == ref {
			refVector = p.NPK()
			found = true
			break
		}
	}
	if !found {
		return []entity.Product{}, nil
	}

	candidates := make([]npkCandidate, 0, len(c.Products))
	for _, p := range c.Products {
		if p.CodSKU == ref {
			continue
		}
		candidates = append(candidates, npkCandidate{product: p, dist: euclidean(refVector, p.NPK())})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	limit := constants.SimilarProductsLimit
	if len(candidates) < limit {
		limit = len(candidates)
	}
	out := make([]entity.Product, 0, limit)
	for _, cand := range candidates[:limit] {
		out = append(out, cand.product)
	}
	return out, nil
}

func euclidean(a, b [3]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// GetPrice cod_sku bo'yicha birinchi narx qatori
func (m *memoryCatalogRepository) GetPrice(ctx context.Context, codSKU string) (*entity.Price, error) {
	c := m.current(ctx)
	if c == nil {
		return nil, entity.ErrCatalogUnavailable
	}
	sku := parser.NormalizeID(codSKU)
	for _, p := range c.Prices {
		if p.CodSKU == sku {
			price := p
			return &price, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", entity.ErrPriceNotFound, sku)
}

// FindVendorByCEP CEP bo'yicha eng ko'p uchragan sotuvchi, topilmasa matritsa sotuvchisi
func (m *memoryCatalogRepository) FindVendorByCEP(ctx context.Context, cep string) (string, error) {
	c := m.current(ctx)
	if c == nil {
		return "", entity.ErrCatalogUnavailable
	}
	cleaned := parser.DigitsOnly(cep)
	if cleaned == "" {
		return constants.DefaultVendor, nil
	}

	counts := make(map[string]int)
	for _, o := range c.Orders {
		if o.CEP == cleaned && o.Vendor != "" {
			counts[o.Vendor]++
		}
	}
	if len(counts) == 0 {
		return constants.DefaultVendor, nil
	}
	return mode(counts), nil
}

// mode returns the most frequent key; ties go to the lexicographically smallest.
func mode(counts map[string]int) string {
	best, bestCount := "", 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best
}

// RecommendByCrop cultura ustuni bo'yicha tavsiyalar
func (m *memoryCatalogRepository) RecommendByCrop(ctx context.Context, crop string) ([]entity.Product, error) {
	c := m.current(ctx)
	needle := strings.ToLower(strings.TrimSpace(crop))
	if c == nil || needle == "" {
		return []entity.Product{}, nil
	}

	out := []entity.Product{}
	for _, p := range c.Products {
		if strings.Contains(strings.ToLower(p.Crop), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// QuoteOrder mahsulotni aniq nom bo'yicha topib, narx x miqdorni hisoblaydi
func (m *memoryCatalogRepository) QuoteOrder(ctx context.Context, req entity.OrderRequest) (*entity.Quote, error) {
	c := m.current(ctx)
	if c == nil {
		return nil, entity.ErrCatalogUnavailable
	}

	name := strings.ToLower(strings.TrimSpace(req.ProductName))
	var product *entity.Product
	for i := range c.Products {
		if strings.ToLower(strings.TrimSpace(c.Products[i].Description)) == name {
			product = &c.Products[i]
			break
		}
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrProductNotFound, req.ProductName)
	}

	price, err := m.GetPrice(ctx, product.CodSKU)
	if err != nil {
		return nil, err
	}
	if price.Value == nil {
		return nil, fmt.Errorf("%w: %s has no value", entity.ErrPriceNotFound, product.CodSKU)
	}

	return &entity.Quote{
		OrderRequest: req,
		CodSKU:       product.CodSKU,
		UnitPrice:    *price.Value,
		Total:        *price.Value * float64(req.Quantity),
	}, nil
}

// ClientNameByTaxID CPF/CNPJ bo'yicha mijoz nomi
func (m *memoryCatalogRepository) ClientNameByTaxID(ctx context.Context, taxID string) (string, error) {
	c := m.current(ctx)
	if c == nil {
		return "", entity.ErrCatalogUnavailable
	}
	cleaned := parser.DigitsOnly(taxID)
	if cleaned != "" {
		for _, o := range c.Orders {
			if o.TaxID == cleaned {
				return o.ClientName, nil
			}
		}
	}
	return "", entity.ErrClientNotFound
}

// Crops portfoliodagi noyob ekinlar, tartibi saqlanadi
func (m *memoryCatalogRepository) Crops(ctx context.Context) ([]string, error) {
	c := m.current(ctx)
	if c == nil {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range c.Products {
		crop := strings.TrimSpace(p.Crop)
		if crop == "" {
			continue
		}
		key := strings.ToLower(crop)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, crop)
	}
	return out, nil
}
