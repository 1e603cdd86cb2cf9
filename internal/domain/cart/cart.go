// Package cart holds the session-scoped selection of inventory items an
// operator collects before assigning them in one batch.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxItems bounds the size of one selection
const MaxItems = 500

// codecVersion is bumped whenever the encoded layout changes
const codecVersion = 1

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{8,128}$`)

// ErrCartFull is returned when an add would exceed MaxItems
var ErrCartFull = shared.NewDomainError("CART_FULL", "Selection cannot hold more than 500 items")

// Cart is an ordered set of item IDs owned by one session
type Cart struct {
	SessionID string
	ItemIDs   []uuid.UUID
	UpdatedAt time.Time
}

// New creates an empty cart for a session
func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, ItemIDs: []uuid.UUID{}, UpdatedAt: time.Now()}
}

// ValidateSessionID rejects session keys that are not safe to embed in a storage key
func ValidateSessionID(sessionID string) error {
	if !sessionPattern.MatchString(sessionID) {
		return shared.InvalidInput("session id must be 8-128 characters of letters, digits, '-' or '_'")
	}
	return nil
}

// Add appends ids not already present and returns how many were added
func (c *Cart) Add(ids ...uuid.UUID) (int, error) {
	added := 0
	for _, id := range ids {
		if id == uuid.Nil || c.Contains(id) {
			continue
		}
		if len(c.ItemIDs) >= MaxItems {
			return added, ErrCartFull
		}
		c.ItemIDs = append(c.ItemIDs, id)
		added++
	}
	if added > 0 {
		c.UpdatedAt = time.Now()
	}
	return added, nil
}

// Remove drops id and reports whether it was present
func (c *Cart) Remove(id uuid.UUID) bool {
	for i, existing := range c.ItemIDs {
		if existing == id {
			c.ItemIDs = append(c.ItemIDs[:i], c.ItemIDs[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.ItemIDs = []uuid.UUID{}
	c.UpdatedAt = time.Now()
}

// Contains reports whether id is selected
func (c *Cart) Contains(id uuid.UUID) bool {
	for _, existing := range c.ItemIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of selected items
func (c *Cart) Len() int {
	return len(c.ItemIDs)
}

type encoded struct {
	V         int         `json:"v"`
	SessionID string      `json:"session_id"`
	ItemIDs   []uuid.UUID `json:"item_ids"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Encode serializes a cart for storage
func Encode(c *Cart) ([]byte, error) {
	return json.Marshal(encoded{
		V:         codecVersion,
		SessionID: c.SessionID,
		ItemIDs:   c.ItemIDs,
		UpdatedAt: c.UpdatedAt,
	})
}

// Decode restores a cart produced by Encode
func Decode(data []byte) (*Cart, error) {
	var e encoded
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if e.V != codecVersion {
		return nil, fmt.Errorf("decode cart: unsupported version %d", e.V)
	}
	if e.ItemIDs == nil {
		e.ItemIDs = []uuid.UUID{}
	}
	return &Cart{SessionID: e.SessionID, ItemIDs: e.ItemIDs, UpdatedAt: e.UpdatedAt}, nil
}

// Store persists carts by session. Every method is scoped to one session.
type Store interface {
	Add(ctx context.Context, sessionID string, ids ...uuid.UUID) (*Cart, error)
	Remove(ctx context.Context, sessionID string, id uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
	List(ctx context.Context, sessionID string) (*Cart, error)
}
