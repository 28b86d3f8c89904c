// internal/domain/cart/redis.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCorrupted is returned by Load when stored cart data cannot be decoded
var ErrCorrupted = errors.New("stored cart is corrupted")

// Persister stores one cart snapshot per user
type Persister interface {
	// Load returns nil, nil when the user has no saved cart
	Load(ctx context.Context, userID string) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context, userID string) error
}

// RedisPersister keeps carts as JSON strings in Redis
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersister creates a persister. A zero ttl keeps carts forever.
func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// Load reads the saved cart of a user
func (p *RedisPersister) Load(ctx context.Context, userID string) (*Snapshot, error) {
	data, err := p.client.Get(ctx, cartKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	for _, li := range snap.Items {
		if li.ID == "" || li.ProductID == "" || li.Quantity < 1 {
			return nil, fmt.Errorf("%w: invalid line item", ErrCorrupted)
		}
	}
	if snap.Items == nil {
		snap.Items = []LineItem{}
	}
	return &snap, nil
}

// Save overwrites the saved cart of a user
func (p *RedisPersister) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, cartKey(snap.UserID), data, p.ttl).Err()
}

// Delete removes the saved cart of a user
func (p *RedisPersister) Delete(ctx context.Context, userID string) error {
	return p.client.Del(ctx, cartKey(userID)).Err()
}
