package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
)

// CatalogService is the slice of the catalog service the handlers need.
type CatalogService interface {
	ListCards(ctx context.Context, page, limit int64) ([]domain.Card, error)
	FeaturedCards(ctx context.Context) ([]domain.FeaturedCard, error)
	SearchCards(ctx context.Context, query string) ([]domain.Card, error)
	SuggestCards(ctx context.Context, query string) ([]string, error)
}

type CardHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewCardHandler(catalog CatalogService, timeout time.Duration) *CardHandler {
	return &CardHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Unparseable values fall back to the service defaults.
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	cards, err := h.catalog.ListCards(ctx, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}

	respondJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	featured, err := h.catalog.FeaturedCards(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, featured)
}

func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cards, err := h.catalog.SearchCards(ctx, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}

	respondJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names, err := h.catalog.SuggestCards(ctx, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	respondJSON(w, http.StatusOK, names)
}
