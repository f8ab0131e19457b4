package redis

import (
	"context"
	"testing"
	"time"

	"blockquest/internal/app"
	"blockquest/internal/domain"
	"blockquest/internal/provider"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestPlayerStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewPlayerStore(newClient(mr), time.Minute)
	player := app.NewPlayer("p-1", provider.New(nil, nil, provider.Options{}), app.PlayerOptions{
		Profile: domain.NewProfile("Ada", "robot"),
	})

	store.Add(player)
	if !mr.Exists("quiz:player:p-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:player:p-1"); got != "Ada" {
		t.Fatalf("expected display name stored, got %q", got)
	}
	if _, ok := store.Get("p-1"); !ok {
		t.Fatalf("expected local player")
	}

	mr.FastForward(30 * time.Second)
	if err := store.Touch(context.Background(), "p-1"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if ttl := mr.TTL("quiz:player:p-1"); ttl != time.Minute {
		t.Fatalf("expected ttl refreshed, got %s", ttl)
	}

	store.Delete("p-1")
	if mr.Exists("quiz:player:p-1") {
		t.Fatalf("expected redis key to be removed")
	}
}
