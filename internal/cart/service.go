package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/cache"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/domain"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/events"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// Service owns cart/stock reconciliation. Every multi-document mutation
// (line upsert + user cart-list update, line delete + reference pull,
// quantity update + stock delta) runs inside the transaction runner so the
// user's cart list and the cart lines can never diverge.
type Service struct {
	lines   repository.CartLineRepository
	users   repository.UserRepository
	catalog repository.CatalogRepository
	txn     repository.TxnRunner
	cache   cache.CartCache
	events  events.Publisher

	// stockCoupling applies the quantity delta of a cart update to the
	// referenced set's stock inside the same transaction. Off by default;
	// stock then only moves via the explicit adjustment operations.
	stockCoupling bool

	sfg singleflight.Group // Prevents cache stampede
}

func NewService(
	lines repository.CartLineRepository,
	users repository.UserRepository,
	catalog repository.CatalogRepository,
	txn repository.TxnRunner,
	cartCache cache.CartCache,
	publisher events.Publisher,
	stockCoupling bool,
) *Service {
	return &Service{
		lines:         lines,
		users:         users,
		catalog:       catalog,
		txn:           txn,
		cache:         cartCache,
		events:        publisher,
		stockCoupling: stockCoupling,
	}
}

// AddToCart increments the line keyed by (userID, cardID, setID), creating
// it if absent, and records the line id on the user's cart list. Returns
// the resulting total quantity on the line, not the requested delta.
// Stock is deliberately not checked at add time.
func (s *Service) AddToCart(ctx context.Context, userID, cardID, setID primitive.ObjectID, quantity int) (int, error) {
	var total int

	err := s.txn.Run(ctx, func(ctx context.Context) error {
		line, err := s.lines.FindByKey(ctx, userID, cardID, setID)

		var lineID primitive.ObjectID
		switch {
		case err == nil:
			total, err = s.lines.IncrementQuantity(ctx, line.ID, quantity)
			if err != nil {
				return err
			}
			lineID = line.ID
		case errors.Is(err, repository.ErrCartLineNotFound):
			lineID, err = s.lines.Insert(ctx, &domain.CartLine{
				UserID:   userID,
				CardID:   cardID,
				SetID:    setID,
				Quantity: quantity,
			})
			if err != nil {
				return err
			}
			total = quantity
		default:
			return err
		}

		return s.users.AddCartRef(ctx, userID, lineID)
	})
	if err != nil {
		return 0, err
	}

	s.invalidateCache(userID)
	s.publish(ctx, events.Event{
		Type: events.TypeItemAdded,
		Key:  userID.Hex(),
		Payload: map[string]interface{}{
			"user_id":  userID.Hex(),
			"card_id":  cardID.Hex(),
			"set_id":   setID.Hex(),
			"quantity": total,
		},
	})
	return total, nil
}

// GetCart returns the user's cart lines expanded with their cards. A cart
// reference whose line or card no longer exists is treated as absent, never
// as an error.
func (s *Service) GetCart(ctx context.Context, userID primitive.ObjectID) ([]domain.CartItem, error) {
	key := userID.Hex()

	// Use singleflight to prevent multiple concurrent cache misses for same user
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		items, err := s.cache.Get(ctx, key)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		lines, err := s.lines.FindByIDs(ctx, user.Cart)
		if err != nil {
			return nil, err
		}

		items = make([]domain.CartItem, 0, len(lines))
		for _, line := range lines {
			card, err := s.catalog.GetCard(ctx, line.CardID)
			if errors.Is(err, repository.ErrCardNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			items = append(items, domain.CartItem{
				CartID:   line.ID,
				Card:     card,
				SetID:    line.SetID,
				Quantity: line.Quantity,
			})
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), key, items); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return items, nil
	})

	if err != nil {
		return nil, err
	}
	return v.([]domain.CartItem), nil
}

// UpdateQuantity overwrites a line's quantity. With stock coupling on, the
// delta is applied to the referenced set's stock in the same transaction,
// so an update exceeding the remaining stock fails as a whole.
func (s *Service) UpdateQuantity(ctx context.Context, userID, cartItemID primitive.ObjectID, newQuantity int) error {
	var delta int

	err := s.txn.Run(ctx, func(ctx context.Context) error {
		line, err := s.lines.FindByID(ctx, cartItemID)
		if err != nil {
			return err
		}
		if line.UserID != userID {
			// A line id under another user's path is indistinguishable
			// from a missing one.
			return repository.ErrCartLineNotFound
		}

		delta = newQuantity - line.Quantity
		if err := s.lines.SetQuantity(ctx, cartItemID, newQuantity); err != nil {
			return err
		}

		if s.stockCoupling && delta != 0 {
			if _, err := s.catalog.DecrementSetQuantity(ctx, line.CardID, line.SetID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(userID)
	s.publish(ctx, events.Event{
		Type: events.TypeQuantityUpdated,
		Key:  userID.Hex(),
		Payload: map[string]interface{}{
			"user_id":      userID.Hex(),
			"cart_item_id": cartItemID.Hex(),
			"quantity":     newQuantity,
			"delta":        delta,
		},
	})
	return nil
}

// Remove pulls the line id off the user's cart list and deletes the line,
// atomically. No path leaves a dangling reference behind.
func (s *Service) Remove(ctx context.Context, userID, cartItemID primitive.ObjectID) error {
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.users.RemoveCartRef(ctx, userID, cartItemID); err != nil {
			return err
		}
		return s.lines.Delete(ctx, cartItemID)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(userID)
	s.publish(ctx, events.Event{
		Type: events.TypeItemRemoved,
		Key:  userID.Hex(),
		Payload: map[string]interface{}{
			"user_id":      userID.Hex(),
			"cart_item_id": cartItemID.Hex(),
		},
	})
	return nil
}

// AdjustSetQuantity is the administrative stock overwrite, matching the
// card by name and the set by id.
func (s *Service) AdjustSetQuantity(ctx context.Context, cardName string, setID primitive.ObjectID, newQuantity int) error {
	if err := s.catalog.AdjustSetQuantity(ctx, cardName, setID, newQuantity); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type: events.TypeStockAdjusted,
		Key:  cardName,
		Payload: map[string]interface{}{
			"card_name": cardName,
			"set_id":    setID.Hex(),
			"quantity":  newQuantity,
		},
	})
	return nil
}

// DecrementSetQuantity subtracts delta from a set's stock, clamping at
// zero. The clamped case stores zero and still reports insufficient stock.
func (s *Service) DecrementSetQuantity(ctx context.Context, cardID, setID primitive.ObjectID, delta int) (int, error) {
	stored, err := s.catalog.DecrementSetQuantity(ctx, cardID, setID, delta)
	if err != nil && !errors.Is(err, repository.ErrInsufficientStock) {
		return 0, err
	}

	s.publish(ctx, events.Event{
		Type: events.TypeStockDecreased,
		Key:  cardID.Hex(),
		Payload: map[string]interface{}{
			"card_id":  cardID.Hex(),
			"set_id":   setID.Hex(),
			"quantity": stored,
		},
	})
	return stored, err
}

func (s *Service) invalidateCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID.Hex()); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

// publish logs and moves on; event delivery never fails a request.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("failed to publish event %s: %v", event.Type, err)
	}
}
