package memory

import (
	"sync"

	"blockquest/internal/app"
)

// PlayerStore is an in-memory implementation of app.PlayerRepository.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]*app.Player
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		players: make(map[string]*app.Player),
	}
}

func (s *PlayerStore) Add(player *app.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID()] = player
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
	delete(s.players, playerID)
}

// Len reports how many players are live.
func (s *PlayerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
