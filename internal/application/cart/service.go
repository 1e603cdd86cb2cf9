// Package cart exposes the per-session selection cart and its assignment preview.
package cart

import (
	"context"
	"time"

	appassignment "github.com/fleet/backend/internal/application/assignment"
	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/domain/cart"
	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Previewer classifies items against a target without writing
type Previewer interface {
	PreviewItems(ctx context.Context, targetType assignment.TargetType, targetID uuid.UUID, ids []uuid.UUID) (*appassignment.ResultDTO, error)
}

// AddItemsRequest represents a request to add items to a cart
type AddItemsRequest struct {
	InventoryIDs []string `json:"inventoryIds" binding:"required,min=1,max=500,dive,required"`
}

// PreviewQuery selects the target a cart is previewed against
type PreviewQuery struct {
	TargetType string `form:"target_type" binding:"required"`
	TargetID   string `form:"target_id" binding:"required,uuid"`
}

// CartResponse represents a cart in API responses. Items that no longer
// exist are dropped from Items but kept in ItemIDs.
type CartResponse struct {
	SessionID string                  `json:"session_id"`
	ItemIDs   []uuid.UUID             `json:"item_ids"`
	Items     []appassignment.ItemRef `json:"items"`
	Count     int                     `json:"count"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// CartService handles selection carts
type CartService struct {
	store     cart.Store
	items     inventory.InventoryItemRepository
	previewer Previewer
	logger    *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(store cart.Store, items inventory.InventoryItemRepository, previewer Previewer, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{store: store, items: items, previewer: previewer, logger: logger}
}

// List returns the cart of a session; an unknown session has an empty cart
func (s *CartService) List(ctx context.Context, sessionID string) (*CartResponse, error) {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// Add adds existing items to the cart. Unknown IDs fail the whole request.
func (s *CartService) Add(ctx context.Context, sessionID string, req AddItemsRequest) (*CartResponse, error) {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	ids, err := appassignment.ParseItemIDs(req.InventoryIDs)
	if err != nil {
		return nil, err
	}
	found, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, shared.NotFound("Inventory item")
	}

	c, err := s.store.Add(ctx, sessionID, ids...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("cart updated", zap.String("session_id", sessionID), zap.Int("count", c.Len()))
	return s.toResponse(ctx, c)
}

// Remove drops one item from the cart; removing an absent item is not an error
func (s *CartService) Remove(ctx context.Context, sessionID string, itemID uuid.UUID) (*CartResponse, error) {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.Remove(ctx, sessionID, itemID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return err
	}
	return s.store.Clear(ctx, sessionID)
}

// Preview classifies the cart's items against a purchase order or invoice
func (s *CartService) Preview(ctx context.Context, sessionID string, query PreviewQuery) (*appassignment.ResultDTO, error) {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	targetType, err := assignment.ParseTargetType(query.TargetType)
	if err != nil {
		return nil, err
	}
	targetID, err := uuid.Parse(query.TargetID)
	if err != nil {
		return nil, shared.InvalidInput("target_id must be a UUID")
	}
	c, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.previewer.PreviewItems(ctx, targetType, targetID, c.ItemIDs)
}

func (s *CartService) toResponse(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	resp := &CartResponse{
		SessionID: c.SessionID,
		ItemIDs:   c.ItemIDs,
		Items:     []appassignment.ItemRef{},
		Count:     c.Len(),
		UpdatedAt: c.UpdatedAt,
	}
	if c.Len() == 0 {
		return resp, nil
	}
	found, err := s.items.FindByIDs(ctx, c.ItemIDs)
	if err != nil {
		return nil, err
	}
	serials := make(map[uuid.UUID]string, len(found))
	for _, item := range found {
		serials[item.ID] = item.SerialNumber
	}
	for _, id := range c.ItemIDs {
		if serial, ok := serials[id]; ok {
			resp.Items = append(resp.Items, appassignment.ItemRef{ID: id, SerialNumber: serial})
		}
	}
	return resp, nil
}
