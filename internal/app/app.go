// Package app wires config, catalog, LLM client and use cases together.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrofel/sales-agent/config"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/internal/infrastructure/gemini"
	"github.com/agrofel/sales-agent/internal/infrastructure/parser"
	"github.com/agrofel/sales-agent/internal/infrastructure/storage"
	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/agrofel/sales-agent/pkg/logger"
)

// ErrAIDisabled is returned by the placeholder AI when no API key is configured.
var ErrAIDisabled = errors.New("GOOGLE_API_KEY is not set")

// App ilovaning barcha bog'liqliklari
type App struct {
	Config  *config.Config
	Catalog repository.CatalogRepository
	Chat    usecase.ChatUseCase

	closers []func() error
}

// New builds the dependency graph. The catalog is loaded lazily on first use.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	source, err := a.catalogSource(ctx)
	if err != nil {
		return nil, err
	}
	a.Catalog = storage.NewMemoryCatalogRepository(source)

	aiRepo, err := a.aiRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	chatRepo := storage.NewMemoryChatRepository(cfg.MaxContextSize)
	a.Chat = usecase.NewChatUseCase(aiRepo, chatRepo, a.Catalog)
	return a, nil
}

func (a *App) catalogSource(ctx context.Context) (repository.CatalogSource, error) {
	cc := a.Config.Catalog
	switch cc.Source {
	case "postgres":
		src, err := storage.NewPostgresCatalogSource(ctx, cc.PostgresDSN, storage.DefaultPostgresTables())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, src.Close)
		logger.Info().Str("db", src.Location()).Msg("Katalog manbasi: postgres")
		return src, nil
	default:
		sep := []rune(cc.CSVSeparator)[0]
		logger.Info().Str("dir", cc.DataDir).Msg("Katalog manbasi: fayllar")
		return storage.NewFileCatalogSource(parser.NewExcelParser(sep), cc.OrdersPath(), cc.PricesPath(), cc.PortfolioPath()), nil
	}
}

func (a *App) aiRepository(ctx context.Context) (repository.AIRepository, error) {
	if strings.TrimSpace(a.Config.GeminiAPIKey) == "" {
		logger.Warn().Msg("GOOGLE_API_KEY bo'sh, AI javoblari o'chirilgan")
		return disabledAI{}, nil
	}
	client, err := gemini.NewGeminiClient(ctx, a.Config.GeminiAPIKey, a.Config.GeminiModel)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return client, nil
}

// Close releases the database and LLM clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close app: %w", errors.Join(errs...))
	}
	return nil
}

type disabledAI struct{}

func (disabledAI) SendMessage(ctx context.Context, conversationID, message, contextText string) (string, error) {
	return "", ErrAIDisabled
}

func (disabledAI) Reset(conversationID string) {}
