package progression

import "blockquest/internal/domain"

var catalog = []domain.Badge{
	{
		ID:          "genesis",
		Name:        "Genesis Block",
		Description: "Mined your first block (Answered 1st question correctly).",
		Icon:        "cube",
		Rarity:      domain.RarityCommon,
		Rule:        domain.BadgeRule{Metric: domain.MetricBlocksMined, Threshold: 1},
	},
	{
		ID:          "miner_5",
		Name:        "Proof of Work",
		Description: "Mined 5 blocks successfully.",
		Icon:        "pickaxe",
		Rarity:      domain.RarityCommon,
		Rule:        domain.BadgeRule{Metric: domain.MetricBlocksMined, Threshold: 5},
	},
	{
		ID:          "hash_master",
		Name:        "Hash Master",
		Description: "Reach 50 MH/s Hash Rate (Streak of 5).",
		Icon:        "zap",
		Rarity:      domain.RarityRare,
		Rule:        domain.BadgeRule{Metric: domain.MetricHashRate, Threshold: 50},
	},
	{
		ID:          "whale",
		Name:        "The Whale",
		Description: "Reach Level 5.",
		Icon:        "crown",
		Rarity:      domain.RarityLegendary,
		Rule:        domain.BadgeRule{Metric: domain.MetricLevel, Threshold: 5},
	},
}

// Catalog returns the badge table in display order.
func Catalog() []domain.Badge {
	out := make([]domain.Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Qualifies reports whether the profile satisfies rule.
func Qualifies(rule domain.BadgeRule, p domain.UserProfile) bool {
	var value int
	switch rule.Metric {
	case domain.MetricBlocksMined:
		value = p.BlocksMined
	case domain.MetricHashRate:
		value = p.HashRate
	case domain.MetricLevel:
		value = p.Level
	default:
		return false
	}
	return value >= rule.Threshold
}

// Evaluate returns unlocked plus every catalog badge the snapshot qualifies
// for. Existing ids are kept in their order and are never removed.
func Evaluate(snapshot domain.UserProfile, unlocked []string) []string {
	out := make([]string, 0, len(unlocked)+len(catalog))
	seen := make(map[string]struct{}, len(unlocked)+len(catalog))
	for _, id := range unlocked {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, badge := range catalog {
		if _, ok := seen[badge.ID]; ok {
			continue
		}
		if Qualifies(badge.Rule, snapshot) {
			seen[badge.ID] = struct{}{}
			out = append(out, badge.ID)
		}
	}
	return out
}
