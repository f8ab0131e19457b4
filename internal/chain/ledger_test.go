package chain_test

import (
	"errors"
	"testing"
	"time"

	"blockquest/internal/chain"
	"blockquest/internal/domain"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := chain.Fingerprint(3, "abc", "2024-01-01T00:00:00.000Z", "Learned: basics")
	b := chain.Fingerprint(3, "abc", "2024-01-01T00:00:00.000Z", "Learned: basics")
	if a != b {
		t.Fatalf("expected identical fingerprints, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}

	variants := []string{
		chain.Fingerprint(4, "abc", "2024-01-01T00:00:00.000Z", "Learned: basics"),
		chain.Fingerprint(3, "abd", "2024-01-01T00:00:00.000Z", "Learned: basics"),
		chain.Fingerprint(3, "abc", "2024-01-01T00:00:00.001Z", "Learned: basics"),
		chain.Fingerprint(3, "abc", "2024-01-01T00:00:00.000Z", "Learned: security"),
	}
	for i, v := range variants {
		if v == a {
			t.Fatalf("variant %d did not change the fingerprint", i)
		}
	}
}

func TestEmptyLedgerHead(t *testing.T) {
	l := chain.NewLedger()
	if _, ok := l.Head(); ok {
		t.Fatalf("expected no head on empty chain")
	}
	if l.Length() != 0 {
		t.Fatalf("expected empty chain, got %d", l.Length())
	}
}

func TestAppendLinksBlocks(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	l := chain.NewLedgerWithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	first := l.Append("basics", domain.DifficultyMedium)
	if first.Index != 0 || first.PrevHash != domain.GenesisHash {
		t.Fatalf("expected genesis-linked block 0, got %+v", first)
	}
	if first.Data != "Learned: basics" {
		t.Fatalf("unexpected data %q", first.Data)
	}
	if first.Timestamp != "2024-05-01T12:00:01.000Z" {
		t.Fatalf("unexpected timestamp %q", first.Timestamp)
	}
	if first.Hash != chain.Fingerprint(0, domain.GenesisHash, first.Timestamp, first.Data) {
		t.Fatalf("hash does not match fingerprint")
	}

	for _, topic := range []string{"consensus", "security", "smart_contracts"} {
		l.Append(topic, domain.DifficultyMedium)
	}

	blocks := l.All()
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].PrevHash != blocks[i-1].Hash {
			t.Fatalf("block %d not linked to block %d", i, i-1)
		}
		if blocks[i].Index != i {
			t.Fatalf("block %d has index %d", i, blocks[i].Index)
		}
	}

	head, ok := l.Head()
	if !ok || head.Hash != blocks[3].Hash {
		t.Fatalf("expected head to be last block")
	}
	if err := l.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	l := chain.NewLedger()
	l.Append("basics", domain.DifficultyEasy)

	blocks := l.All()
	blocks[0].Data = "tampered"

	if got := l.All()[0].Data; got != "Learned: basics" {
		t.Fatalf("ledger mutated through All(): %q", got)
	}
}

func TestVerifyBlocksDetectsTampering(t *testing.T) {
	l := chain.NewLedger()
	l.Append("basics", domain.DifficultyMedium)
	l.Append("consensus", domain.DifficultyMedium)

	blocks := l.All()
	blocks[1].Data = "Learned: nothing"
	err := chain.VerifyBlocks(blocks)
	if !errors.Is(err, domain.ErrChainBroken) {
		t.Fatalf("expected chain broken, got %v", err)
	}

	blocks = l.All()
	blocks[0].PrevHash = "1"
	if err := chain.VerifyBlocks(blocks); !errors.Is(err, domain.ErrChainBroken) {
		t.Fatalf("expected broken genesis link, got %v", err)
	}
}
