package domain

import "strings"

// GenesisHash is the prevHash of the first block in every chain.
var GenesisHash = strings.Repeat("0", 20)

// Difficulty tags a question and scales its reward.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty accepts the tag case-insensitively.
func ParseDifficulty(raw string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	}
	return "", false
}

// Block is one validated quiz success recorded in a player's chain.
type Block struct {
	Index      int        `json:"index"`
	Timestamp  string     `json:"timestamp"`
	Data       string     `json:"data"`
	PrevHash   string     `json:"prevHash"`
	Hash       string     `json:"hash"`
	Difficulty Difficulty `json:"difficulty"`
}

// UserProfile is the gamified progression state of a player.
type UserProfile struct {
	Name           string   `json:"name"`
	AvatarID       string   `json:"avatarId"`
	Level          int      `json:"level"`
	Exp            int      `json:"exp"`
	ExpToNextLevel int      `json:"expToNextLevel"`
	BlocksMined    int      `json:"blocksMined"`
	HashRate       int      `json:"hashRate"` // MH/s
	Badges         []string `json:"badges"`
}

// HasBadge reports whether id is already unlocked.
func (p UserProfile) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Badges = append([]string(nil), p.Badges...)
	return out
}

// NewProfile returns the starting profile for a fresh session.
func NewProfile(name, avatarID string) UserProfile {
	if name == "" {
		name = "Node_Initiate_01"
	}
	if avatarID == "" {
		avatarID = "robot"
	}
	return UserProfile{
		Name:           name,
		AvatarID:       avatarID,
		Level:          1,
		Exp:            0,
		ExpToNextLevel: 100,
		BlocksMined:    0,
		HashRate:       10,
		Badges:         []string{},
	}
}

// Rarity grades how hard a badge is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Metric names the profile field a badge rule compares against.
type Metric string

const (
	MetricBlocksMined Metric = "blocksMined"
	MetricHashRate    Metric = "hashRate"
	MetricLevel       Metric = "level"
)

// BadgeRule unlocks a badge once Metric reaches Threshold.
type BadgeRule struct {
	Metric    Metric `json:"metric"`
	Threshold int    `json:"threshold"`
}

// Badge is a static catalog entry.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Rarity      Rarity    `json:"rarity"`
	Rule        BadgeRule `json:"rule"`
}

// QuizQuestion models an MCQ question with exactly four options.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
	Topic        string   `json:"topic"`
}

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Valid reports whether q is well formed.
func (q QuizQuestion) Valid() bool {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != OptionCount {
		return false
	}
	return q.CorrectIndex >= 0 && q.CorrectIndex < OptionCount
}

// Topic is a minable quiz subject.
type Topic struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Difficulty Difficulty `json:"difficulty"`
}

// LeaderboardEntry is a read-only display row.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	BlocksMined int    `json:"blocksMined"`
	HashRate    string `json:"hashRate"`
	AvatarColor string `json:"avatarColor"`
}
