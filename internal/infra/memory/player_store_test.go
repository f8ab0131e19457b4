package memory

import (
	"testing"

	"blockquest/internal/app"
	"blockquest/internal/provider"
)

func TestPlayerStoreLifecycle(t *testing.T) {
	store := NewPlayerStore()
	player := app.NewPlayer("p-1", provider.New(nil, nil, provider.Options{}), app.PlayerOptions{})

	store.Add(player)
	got, ok := store.Get("p-1")
	if !ok || got != player {
		t.Fatalf("expected player present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one player, got %d", store.Len())
	}

	store.Delete("p-1")
	if _, ok := store.Get("p-1"); ok {
		t.Fatalf("expected player removed")
	}
}
