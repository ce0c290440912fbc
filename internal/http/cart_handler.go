package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService is the slice of the cart service the handlers need.
type CartService interface {
	AddToCart(ctx context.Context, userID, cardID, setID primitive.ObjectID, quantity int) (int, error)
	GetCart(ctx context.Context, userID primitive.ObjectID) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, cartItemID primitive.ObjectID, newQuantity int) error
	Remove(ctx context.Context, userID, cartItemID primitive.ObjectID) error
	AdjustSetQuantity(ctx context.Context, cardName string, setID primitive.ObjectID, newQuantity int) error
	DecrementSetQuantity(ctx context.Context, cardID, setID primitive.ObjectID, delta int) (int, error)
}

type CartHandler struct {
	cart    CartService
	timeout time.Duration
}

func NewCartHandler(cart CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type AddToCartDTO struct {
	UserID   string `json:"userId"`
	CardID   string `json:"cardId"`
	SetID    string `json:"setId"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityDTO struct {
	Quantity int `json:"quantity"`
}

type StockDeltaDTO struct {
	QuantityDifference int `json:"quantityDifference"`
}

type AdjustQuantityDTO struct {
	CardName    string `json:"cardName"`
	NewQuantity int    `json:"newQuantity"`
	// SetIndex carries the set's object id; the field name is historical.
	SetIndex string `json:"setIndex"`
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddToCartDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid userId")
		return
	}
	cardID, err := primitive.ObjectIDFromHex(req.CardID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cardId")
		return
	}
	setID, err := primitive.ObjectIDFromHex(req.SetID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid setId")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	total, err := h.cart.AddToCart(ctx, userID, cardID, setID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Item added to cart successfully",
		"updatedQuantity": total,
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	items, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid userId")
		return
	}
	cartItemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "cartItemId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cartItemId")
		return
	}

	var req UpdateQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	if err := h.cart.UpdateQuantity(ctx, userID, cartItemID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Quantity updated successfully"})
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid userId")
		return
	}
	cartItemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "cartItemId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cartItemId")
		return
	}

	if err := h.cart.Remove(ctx, userID, cartItemID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart successfully"})
}

// UpdateSetQuantity applies a stock delta to a set identified by the
// (cardId, setId) pair.
func (h *CartHandler) UpdateSetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cardID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "cardId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cardId")
		return
	}
	setID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "setId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid setId")
		return
	}

	var req StockDeltaDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := h.cart.DecrementSetQuantity(ctx, cardID, setID, req.QuantityDifference); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Quantity updated in database"})
}

// AdjustQuantity is the administrative stock overwrite by card name.
func (h *CartHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AdjustQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	setID, err := primitive.ObjectIDFromHex(req.SetIndex)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid setIndex")
		return
	}
	if req.NewQuantity < 0 {
		respondError(w, http.StatusBadRequest, "newQuantity must not be negative")
		return
	}

	if err := h.cart.AdjustSetQuantity(ctx, req.CardName, setID, req.NewQuantity); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Quantity adjusted successfully"})
}
