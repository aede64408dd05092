package assetstore

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStore_PutGetDelete(t *testing.T) {
	store := TestStore(t, "asset-test-bucket")
	ctx := context.Background()

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 'j', 'p', 'e', 'g'}
	if err := store.Put(ctx, "acme/hero.jpg", payload, "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "acme/hero.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get returned %d bytes, want %d", len(got), len(payload))
	}

	if err := store.Delete(ctx, "acme/hero.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = store.Get(ctx, "acme/hero.jpg")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Get after delete: got %v, want ErrAssetNotFound", err)
	}
}

func TestStore_GetMissingAsset(t *testing.T) {
	store := TestStore(t, "asset-test-bucket")

	_, err := store.Get(context.Background(), "acme/never-uploaded.png")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("got %v, want ErrAssetNotFound", err)
	}
}

func TestStore_PublicURL(t *testing.T) {
	store := NewFromS3Client(nil, "bucket", "https://assets.example.com/")

	got := store.PublicURL("/acme/hero.jpg")
	if got != "https://assets.example.com/acme/hero.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
	if strings.Contains(got, "//acme") {
		t.Errorf("PublicURL kept a duplicate slash: %q", got)
	}
}
