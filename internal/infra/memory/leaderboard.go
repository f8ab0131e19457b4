package memory

import (
	"context"

	"blockquest/internal/domain"
)

// StaticLeaderboard serves a fixed set of network miners.
type StaticLeaderboard struct {
	entries []domain.LeaderboardEntry
}

// NewStaticLeaderboard uses entries, or the built-in network data when nil.
func NewStaticLeaderboard(entries []domain.LeaderboardEntry) *StaticLeaderboard {
	if entries == nil {
		entries = domain.MockLeaderboard()
	}
	return &StaticLeaderboard{entries: entries}
}

// Leaderboard implements app.LeaderboardSource.
func (l *StaticLeaderboard) Leaderboard(_ context.Context) ([]domain.LeaderboardEntry, error) {
	return domain.RankEntries(l.entries), nil
}
