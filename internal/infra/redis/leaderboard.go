package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"blockquest/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	leaderboardBlocksKey = "leaderboard:blocks"
	leaderboardNodesKey  = "leaderboard:nodes"
)

// nodeInfo is the display part of an entry, stored per member in a hash.
type nodeInfo struct {
	Name        string `json:"name"`
	HashRate    string `json:"hashRate"`
	AvatarColor string `json:"avatarColor"`
}

// Leaderboard keeps network nodes in a ZSET scored by blocks mined.
type Leaderboard struct {
	client *redis.Client
	limit  int64
}

// NewLeaderboard reads at most limit entries; limit <= 0 means all.
func NewLeaderboard(client *redis.Client, limit int64) *Leaderboard {
	return &Leaderboard{client: client, limit: limit}
}

// Seed writes entries, replacing any node with the same id.
func (l *Leaderboard) Seed(ctx context.Context, entries []domain.LeaderboardEntry) error {
	pipe := l.client.TxPipeline()
	for _, e := range entries {
		info, err := json.Marshal(nodeInfo{Name: e.Name, HashRate: e.HashRate, AvatarColor: e.AvatarColor})
		if err != nil {
			return fmt.Errorf("encode node %s: %w", e.ID, err)
		}
		pipe.ZAdd(ctx, leaderboardBlocksKey, redis.Z{
			Score:  float64(e.BlocksMined),
			Member: e.ID,
		})
		pipe.HSet(ctx, leaderboardNodesKey, e.ID, info)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("seed leaderboard: %w", err)
	}
	return nil
}

// SeedIfEmpty seeds only when no node is stored yet.
func (l *Leaderboard) SeedIfEmpty(ctx context.Context, entries []domain.LeaderboardEntry) error {
	n, err := l.client.ZCard(ctx, leaderboardBlocksKey).Result()
	if err != nil {
		return fmt.Errorf("count leaderboard: %w", err)
	}
	if n > 0 {
		return nil
	}
	return l.Seed(ctx, entries)
}

// Leaderboard implements app.LeaderboardSource.
func (l *Leaderboard) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	// ZREVRANGE returns highest to lowest
	results, err := l.client.ZRevRangeWithScores(ctx, leaderboardBlocksKey, 0, l.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(results) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Member.(string)
	}
	infos, err := l.client.HMGet(ctx, leaderboardNodesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard nodes: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(results))
	for i, r := range results {
		var info nodeInfo
		if raw, ok := infos[i].(string); ok {
			_ = json.Unmarshal([]byte(raw), &info)
		}
		if info.Name == "" {
			info.Name = ids[i]
		}
		entries[i] = domain.LeaderboardEntry{
			Rank:        i + 1,
			ID:          ids[i],
			Name:        info.Name,
			BlocksMined: int(r.Score),
			HashRate:    info.HashRate,
			AvatarColor: info.AvatarColor,
		}
	}
	return entries, nil
}
