package fixture

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/redbaez/airwave-e2e/internal/assetstore"
)

// Asset is one uploaded file as the library displays it.
type Asset struct {
	Key      string
	Name     string
	MimeType string
	Size     int
}

// Library is the per-client asset index. Display order is insertion order;
// bytes live in the backing store when one is configured, otherwise only the
// index entry is kept.
type Library struct {
	mu      sync.Mutex
	byOrder map[string][]Asset
	store   *assetstore.Store
}

// NewLibrary builds an asset library. store may be nil.
func NewLibrary(store *assetstore.Store) *Library {
	return &Library{
		byOrder: make(map[string][]Asset),
		store:   store,
	}
}

// Add stores one asset for a client and appends it to the display order.
func (l *Library) Add(ctx context.Context, client, name, mimeType string, data []byte) (Asset, error) {
	asset := Asset{
		Key:      fmt.Sprintf("%s/%s-%s", client, uuid.New().String(), name),
		Name:     name,
		MimeType: mimeType,
		Size:     len(data),
	}
	if l.store != nil {
		if err := l.store.Put(ctx, asset.Key, data, mimeType); err != nil {
			return Asset{}, fmt.Errorf("store asset %q: %w", name, err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.byOrder[client] = append(l.byOrder[client], asset)
	return asset, nil
}

// List returns a client's assets in display order.
func (l *Library) List(client string) []Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	assets := l.byOrder[client]
	out := make([]Asset, len(assets))
	copy(out, assets)
	return out
}

// Names returns a client's asset names in display order.
func (l *Library) Names(client string) []string {
	assets := l.List(client)
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}
	return names
}

// Reset drops every index entry. Backing-store objects are left in place;
// they are unreachable without their index entries.
func (l *Library) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byOrder = make(map[string][]Asset)
}

// Bytes fetches an asset's content from the backing store.
func (l *Library) Bytes(ctx context.Context, key string) ([]byte, error) {
	if l.store == nil {
		return nil, assetstore.ErrAssetNotFound
	}
	return l.store.Get(ctx, key)
}
