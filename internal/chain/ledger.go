// Package chain keeps a player's append-only list of mined blocks.
//
// Each block carries the fingerprint of its predecessor, the first one the
// genesis sentinel. Blocks are never edited or removed once appended.
package chain

import (
	"fmt"
	"sync"
	"time"

	"blockquest/internal/domain"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Ledger owns the ordered blocks of one session.
type Ledger struct {
	mu     sync.RWMutex
	now    func() time.Time
	blocks []domain.Block
}

// NewLedger returns an empty ledger stamped with the wall clock.
func NewLedger() *Ledger {
	return NewLedgerWithClock(time.Now)
}

// NewLedgerWithClock allows deterministic timestamps in tests.
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{
		now:    now,
		blocks: make([]domain.Block, 0),
	}
}

// Length returns the current block count.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Head returns the most recently appended block; ok is false on an empty chain.
func (l *Ledger) Head() (domain.Block, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.blocks) == 0 {
		return domain.Block{}, false
	}
	return l.blocks[len(l.blocks)-1], true
}

// Append links a new block for topic onto the head and returns it.
func (l *Ledger) Append(topic string, difficulty domain.Difficulty) domain.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	prevHash := domain.GenesisHash
	if n := len(l.blocks); n > 0 {
		prevHash = l.blocks[n-1].Hash
	}

	block := domain.Block{
		Index:      len(l.blocks),
		Timestamp:  l.now().UTC().Format(TimestampLayout),
		Data:       "Learned: " + topic,
		PrevHash:   prevHash,
		Difficulty: difficulty,
	}
	block.Hash = Fingerprint(block.Index, block.PrevHash, block.Timestamp, block.Data)

	l.blocks = append(l.blocks, block)
	return block
}

// All returns a copy of the chain in append order.
func (l *Ledger) All() []domain.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Verify re-walks the chain checking indices, linkage and fingerprints.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return VerifyBlocks(l.blocks)
}

// VerifyBlocks checks an arbitrary block sequence, e.g. one received from a client.
func VerifyBlocks(blocks []domain.Block) error {
	for i, b := range blocks {
		expectedPrev := domain.GenesisHash
		if i > 0 {
			expectedPrev = blocks[i-1].Hash
		}
		if b.Index != i {
			return fmt.Errorf("block %d: index %d: %w", i, b.Index, domain.ErrChainBroken)
		}
		if b.PrevHash != expectedPrev {
			return fmt.Errorf("block %d: prev hash %s, want %s: %w", i, b.PrevHash, expectedPrev, domain.ErrChainBroken)
		}
		if want := Fingerprint(b.Index, b.PrevHash, b.Timestamp, b.Data); b.Hash != want {
			return fmt.Errorf("block %d: hash %s, want %s: %w", i, b.Hash, want, domain.ErrChainBroken)
		}
	}
	return nil
}
