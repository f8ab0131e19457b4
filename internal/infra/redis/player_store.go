package redis

import (
	"context"
	"sync"
	"time"

	"blockquest/internal/app"
	"github.com/redis/go-redis/v9"
)

// PlayerStore is a Redis-aware implementation of app.PlayerRepository.
// Players (their chains, profiles and subscribers) stay in a local map;
// Redis only carries a liveness marker per player so other instances and
// operators can count who is mining.
type PlayerStore struct {
	client  *redis.Client
	ttl     time.Duration
	mu      sync.RWMutex
	players map[string]*app.Player
}

func NewPlayerStore(client *redis.Client, ttl time.Duration) *PlayerStore {
	return &PlayerStore{
		client:  client,
		ttl:     ttl,
		players: make(map[string]*app.Player),
	}
}

func (s *PlayerStore) Add(player *app.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID()] = player
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(player.ID()), player.Profile().Name, s.ttl).Err()
}

func (s *PlayerStore) Get(playerID string) (*app.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[playerID]
	return player, ok
}

func (s *PlayerStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return
	}
	delete(s.players, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

// Touch extends a player's liveness marker.
func (s *PlayerStore) Touch(ctx context.Context, playerID string) error {
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, s.key(playerID), s.ttl).Err()
}

func (s *PlayerStore) key(playerID string) string {
	return "quiz:player:" + playerID
}
