package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler serves catalog lookups without going through the LLM.
type CatalogHandler struct {
	log     zerolog.Logger
	catalog repository.CatalogRepository
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(log zerolog.Logger, catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{log: log, catalog: catalog}
}

// QuoteRequestDTO is the body of POST /api/quote.
type QuoteRequestDTO struct {
	Message string `json:"message"`
}

// Quote handles POST /api/quote: parse the order text and price it.
func (h *CatalogHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, ok := usecase.ParseOrderRequest(req.Message)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "no order found in message", "expected '<quantidade> [unidades] [de] <produto>'")
		return
	}

	quote, err := h.catalog.QuoteOrder(r.Context(), order)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// SearchProducts handles GET /api/products?q=.
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required", "")
		return
	}
	products, err := h.catalog.FindProductsByName(r.Context(), q)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": products})
}

// Price handles GET /api/products/{sku}/price.
func (h *CatalogHandler) Price(w http.ResponseWriter, r *http.Request) {
	price, err := h.catalog.GetPrice(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

// Similar handles GET /api/products/{sku}/similar.
func (h *CatalogHandler) Similar(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.FindSimilarByNPK(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": products})
}

// Crops handles GET /api/crops.
func (h *CatalogHandler) Crops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.catalog.Crops(r.Context())
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": crops})
}

// CropProducts handles GET /api/crops/{crop}/products.
func (h *CatalogHandler) CropProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.RecommendByCrop(r.Context(), chi.URLParam(r, "crop"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": products})
}

// Vendor handles GET /api/vendors/{cep}.
func (h *CatalogHandler) Vendor(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")
	vendor, err := h.catalog.FindVendorByCEP(r.Context(), cep)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cep": cep, "vendor": vendor})
}

// Client handles GET /api/clients/{taxID}.
func (h *CatalogHandler) Client(w http.ResponseWriter, r *http.Request) {
	taxID := chi.URLParam(r, "taxID")
	name, err := h.catalog.ClientNameByTaxID(r.Context(), taxID)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tax_id": taxID, "name": name})
}

// Reload handles POST /api/catalog/reload. A failed reload keeps the previous catalog.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(r.Context()); err != nil {
		h.writeLookupError(w, err)
		return
	}
	crops, err := h.catalog.Crops(r.Context())
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.log.Info().Int("crops", len(crops)).Msg("catalog reloaded")
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "crops": crops})
}

func (h *CatalogHandler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrCatalogUnavailable):
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable", err.Error())
	case errors.Is(err, entity.ErrProductNotFound),
		errors.Is(err, entity.ErrPriceNotFound),
		errors.Is(err, entity.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "not found", err.Error())
	default:
		h.log.Error().Err(err).Msg("catalog lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed", err.Error())
	}
}
