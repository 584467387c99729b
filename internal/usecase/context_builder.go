package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/rs/zerolog"
)

// ContextBuilder xabarga qarab LLM uchun kontekst tanlaydi: kotirovka, ekin tavsiyasi yoki umumiy
type ContextBuilder struct {
	catalog repository.CatalogRepository
	log     zerolog.Logger
}

// NewContextBuilder creates a builder over the catalog.
func NewContextBuilder(catalog repository.CatalogRepository) *ContextBuilder {
	return &ContextBuilder{catalog: catalog, log: logger.Component("context")}
}

// Build picks the route for text and renders its context. Only the reply text is left empty.
// Catalog errors never fail the build; they fall back to a not-found or default context.
func (b *ContextBuilder) Build(ctx context.Context, text string) *entity.Reply {
	if req, ok := ParseOrderRequest(text); ok {
		quote, err := b.catalog.QuoteOrder(ctx, req)
		if err == nil {
			return &entity.Reply{Route: entity.RouteQuote, Context: quoteContext(quote), Quote: quote}
		}
		if !isCatalogMiss(err) {
			b.log.Warn().Err(err).Str("product", req.ProductName).Msg("Kotirovka hisoblanmadi")
		}
		return &entity.Reply{Route: entity.RouteQuoteNotFound, Context: quoteNotFoundContext(req.ProductName)}
	}

	if crop := b.matchCrop(ctx, text); crop != "" {
		items, err := b.catalog.RecommendByCrop(ctx, crop)
		if err == nil && len(items) > 0 {
			return &entity.Reply{
				Route:   entity.RouteRecommendation,
				Context: recommendationContext(crop, items),
				Crop:    crop,
				Items:   items,
			}
		}
	}

	return &entity.Reply{Route: entity.RouteDefault, Context: constants.DefaultContext}
}

// matchCrop returns the first crop, in portfolio order, named inside text.
func (b *ContextBuilder) matchCrop(ctx context.Context, text string) string {
	crops, err := b.catalog.Crops(ctx)
	if err != nil {
		return ""
	}
	lower := strings.ToLower(text)
	for _, crop := range crops {
		if strings.Contains(lower, strings.ToLower(crop)) {
			return crop
		}
	}
	return ""
}

func quoteContext(q *entity.Quote) string {
	return fmt.Sprintf("O cliente pediu uma cotação para '%d' unidades de '%s'. ", q.Quantity, q.ProductName) +
		fmt.Sprintf("Eu calculei o valor total e deu R$ %.2f. ", q.Total) +
		"Sua tarefa é: 1. Informar este valor total para o cliente. " +
		"2. Ressaltar de forma clara que este valor **NÃO INCLUI O FRETE**. " +
		"3. Perguntar se ele deseja adicionar este item ao carrinho ou se gostaria de falar com um vendedor para obter uma cotação completa com frete."
}

func quoteNotFoundContext(productName string) string {
	return fmt.Sprintf("O cliente pediu uma cotação para '%s', mas não encontrei este produto ou seu preço em minha base de dados. ", productName) +
		"Sua tarefa é: 1. Informar ao cliente que você não conseguiu encontrar o produto com o nome exato que ele forneceu. " +
		"2. Pedir para ele verificar se o nome está correto ou se pode fornecer mais detalhes. " +
		"3. Oferecer ajuda para encontrar o produto ou encaminhá-lo a um vendedor."
}

func recommendationContext(crop string, items []entity.Product) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("O cliente perguntou sobre a cultura '%s'. ", crop))
	sb.WriteString("Encontrei os seguintes produtos recomendados para ela. ")
	sb.WriteString("Use ESTA LISTA como base da sua recomendação e não invente produtos fora dela.")
	sb.WriteString("\n\n--- PRODUTOS DISPONÍVEIS ---\n")
	for _, p := range items {
		sb.WriteString(fmt.Sprintf("- Nome: %s, NPK: %s\n", p.Description, p.NPKLabel()))
	}
	return sb.String()
}

// isCatalogMiss reports errors that mean "not in the catalog" rather than a failure.
func isCatalogMiss(err error) bool {
	return errors.Is(err, entity.ErrProductNotFound) ||
		errors.Is(err, entity.ErrPriceNotFound) ||
		errors.Is(err, entity.ErrCatalogUnavailable)
}
