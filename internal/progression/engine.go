// Package progression turns validated answers into experience, levels,
// hash rate and badges.
package progression

import (
	"math"
	"sync"

	"blockquest/internal/domain"
)

// LevelGrowth multiplies the experience threshold on every level-up.
const LevelGrowth = 1.5

// XPGain returns the experience awarded for a correct answer.
func XPGain(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyHard:
		return 100
	case domain.DifficultyMedium:
		return 50
	default:
		return 25
	}
}

// HashRateGain returns the hash rate bump for a correct answer.
func HashRateGain(d domain.Difficulty) int {
	if d == domain.DifficultyHard {
		return 5
	}
	return 2
}

// Advance computes the profile that follows p after one correct answer.
//
// At most one level-up is applied per call, so a large gain can leave Exp at
// or above the new ExpToNextLevel.
func Advance(p domain.UserProfile, d domain.Difficulty) domain.UserProfile {
	newExp := p.Exp + XPGain(d)
	newLevel := p.Level
	threshold := p.ExpToNextLevel

	if newExp >= threshold {
		newLevel++
		newExp -= threshold
		threshold = int(math.Floor(float64(threshold) * LevelGrowth))
	}

	next := p.Clone()
	next.Level = newLevel
	next.Exp = newExp
	next.ExpToNextLevel = threshold
	next.BlocksMined = p.BlocksMined + 1
	next.HashRate = p.HashRate + HashRateGain(d)
	next.Badges = Evaluate(next, p.Badges)
	return next
}

// Result describes one RecordSuccess step.
type Result struct {
	Profile   domain.UserProfile
	Unlocked  []string
	LeveledUp bool
}

// Engine owns a player's profile and applies successes sequentially.
type Engine struct {
	mu      sync.RWMutex
	profile domain.UserProfile
}

func NewEngine(initial domain.UserProfile) *Engine {
	return &Engine{profile: initial.Clone()}
}

// Profile returns a copy of the current profile.
func (e *Engine) Profile() domain.UserProfile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile.Clone()
}

// RecordSuccess advances the profile and returns the new value.
func (e *Engine) RecordSuccess(d domain.Difficulty) domain.UserProfile {
	return e.Apply(d).Profile
}

// Apply is RecordSuccess with the badges and level-up it caused.
func (e *Engine) Apply(d domain.Difficulty) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.profile
	next := Advance(prev, d)
	e.profile = next

	unlocked := make([]string, 0)
	for _, id := range next.Badges {
		if !prev.HasBadge(id) {
			unlocked = append(unlocked, id)
		}
	}
	return Result{
		Profile:   next.Clone(),
		Unlocked:  unlocked,
		LeveledUp: next.Level > prev.Level,
	}
}
