package domain

import "sort"

// Topics lists the subjects a player can mine.
func Topics() []Topic {
	return []Topic{
		{ID: "basics", Label: "Basics", Difficulty: DifficultyEasy},
		{ID: "consensus", Label: "Consensus", Difficulty: DifficultyMedium},
		{ID: "smart_contracts", Label: "Contracts", Difficulty: DifficultyHard},
		{ID: "security", Label: "Security", Difficulty: DifficultyHard},
	}
}

// LookupTopic finds a topic by id.
func LookupTopic(id string) (Topic, bool) {
	for _, t := range Topics() {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// MockLeaderboard is the static network-status data shown next to the player.
func MockLeaderboard() []LeaderboardEntry {
	return []LeaderboardEntry{
		{ID: "1", Name: "Satoshi_N", BlocksMined: 21000, HashRate: "9000 TH/s", AvatarColor: "text-orange-500"},
		{ID: "2", Name: "Vitalik_B", BlocksMined: 15400, HashRate: "5000 GH/s", AvatarColor: "text-purple-500"},
		{ID: "3", Name: "Ada_L", BlocksMined: 8200, HashRate: "2000 GH/s", AvatarColor: "text-blue-500"},
		{ID: "4", Name: "Gavin_W", BlocksMined: 6000, HashRate: "1500 GH/s", AvatarColor: "text-pink-500"},
		{ID: "5", Name: "Node_Breaker", BlocksMined: 120, HashRate: "50 MH/s", AvatarColor: "text-red-500"},
	}
}

// RankEntries orders entries by blocks mined (highest first) and numbers them from 1.
// The input slice is left untouched.
func RankEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	ranked := append([]LeaderboardEntry(nil), entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BlocksMined > ranked[j].BlocksMined
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
