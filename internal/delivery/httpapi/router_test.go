package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChat struct {
	lastConv string
	cleared  string
	err      error
}

func (s *stubChat) ProcessMessage(ctx context.Context, conversationID, username, text string) (*entity.Reply, error) {
	s.lastConv = conversationID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Reply{Text: "resposta: " + text, Route: entity.RouteDefault, Context: constants.DefaultContext}, nil
}

func (s *stubChat) ClearHistory(ctx context.Context, conversationID string) error {
	s.cleared = conversationID
	return nil
}

func (s *stubChat) GetHistory(ctx context.Context, conversationID string) ([]entity.Message, error) {
	return []entity.Message{{ConversationID: conversationID, Text: "oi", Response: "olá"}}, nil
}

func f(v float64) *float64 { return &v }

func newTestRouter(chat *stubChat, catalogErr error) http.Handler {
	src := storage.NewStaticCatalogSource(&entity.Catalog{
		Orders: []entity.Order{{CEP: "01310100", TaxID: "12345678000190", ClientName: "Fazenda Boa Vista", Vendor: "V01 - Joao"}},
		Prices: []entity.Price{{CodSKU: "10", Value: f(120.5)}},
		Products: []entity.Product{
			{CodSKU: "10", Description: "09 25 15 C/MICRO", Crop: "Soja", N: f(9), P: f(25), K: f(15)},
			{CodSKU: "20", Description: "Ureia Agricola", Crop: "Milho", N: f(45)},
		},
	})
	src.Err = catalogErr
	return NewRouter(chat, storage.NewMemoryCatalogRepository(src), 0)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(&stubChat{}, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestChat(t *testing.T) {
	chat := &stubChat{}
	h := newTestRouter(chat, nil)

	rec := do(t, h, http.MethodPost, "/api/chat", `{"message":"bom dia"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, resp.ConversationID, chat.lastConv)
	assert.Equal(t, "resposta: bom dia", resp.Reply.Text)

	rec = do(t, h, http.MethodPost, "/api/chat", `{"conversation_id":"abc","message":"oi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", chat.lastConv)

	rec = do(t, h, http.MethodPost, "/api/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/chat", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	chat.err = errors.New("boom")
	rec = do(t, h, http.MethodPost, "/api/chat", `{"message":"oi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestConversationHistoryAndClear(t *testing.T) {
	chat := &stubChat{}
	h := newTestRouter(chat, nil)

	rec := do(t, h, http.MethodGet, "/api/conversations/c1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"conversation_id":"c1"`)

	rec = do(t, h, http.MethodDelete, "/api/conversations/c1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "c1", chat.cleared)
}

func TestQuote(t *testing.T) {
	h := newTestRouter(&stubChat{}, nil)

	rec := do(t, h, http.MethodPost, "/api/quote", `{"message":"Quero 20 unidades de 09 25 15 C/MICRO"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var q entity.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "10", q.CodSKU)
	assert.InDelta(t, 2410.0, q.Total, 1e-9)
	assert.Equal(t, 20, q.Quantity)

	rec = do(t, h, http.MethodPost, "/api/quote", `{"message":"3 unidades de Ureia Agricola"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/quote", `{"message":"quero adubo"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCatalogLookups(t *testing.T) {
	h := newTestRouter(&stubChat{}, nil)

	rec := do(t, h, http.MethodGet, "/api/products?q=micro", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "09 25 15 C/MICRO")

	rec = do(t, h, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/10/price", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "120.5")

	rec = do(t, h, http.MethodGet, "/api/products/99/price", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/10/similar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ureia Agricola")

	rec = do(t, h, http.MethodGet, "/api/crops", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":["Soja","Milho"]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/crops/milho/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ureia Agricola")

	rec = do(t, h, http.MethodGet, "/api/vendors/01310-100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "V01 - Joao")

	rec = do(t, h, http.MethodGet, "/api/clients/12345678000190", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fazenda Boa Vista")

	rec = do(t, h, http.MethodGet, "/api/clients/000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogUnavailable(t *testing.T) {
	h := newTestRouter(&stubChat{}, errors.New("missing files"))

	rec := do(t, h, http.MethodGet, "/api/products/10/price", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/crops", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestCatalogReloadRecoversFromFailedLoad(t *testing.T) {
	src := storage.NewStaticCatalogSource(nil)
	src.Err = errors.New("precos.csv: no such file")
	h := NewRouter(&stubChat{}, storage.NewMemoryCatalogRepository(src), 0)

	rec := do(t, h, http.MethodGet, "/api/products/10/price", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/catalog/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such file")

	src.Err = nil
	src.Catalog = &entity.Catalog{
		Prices:   []entity.Price{{CodSKU: "10", Value: f(120.5)}},
		Products: []entity.Product{{CodSKU: "10", Description: "09 25 15 C/MICRO", Crop: "Soja"}},
	}
	rec = do(t, h, http.MethodPost, "/api/catalog/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Soja")

	rec = do(t, h, http.MethodGet, "/api/products/10/price", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "120.5")
}
