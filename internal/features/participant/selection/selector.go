// Package selection implements winner sampling for giveaways. The default
// mode draws from crypto/rand with unbiased bounded integers; a seeded
// deterministic mode exists for audit replay and is never used as the
// production default.
package selection

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	mrand "math/rand"
	"time"
)

const (
	MethodCryptographic = "cryptographic_random"
	MethodDeterministic = "deterministic_seed"
)

// Result captures one selection run for the audit log.
type Result struct {
	Winners            []int64
	TotalParticipants  int
	WinnerCountReq     int
	WinnerCountSel     int
	Method             string
	Seed               string
	SelectionTimestamp time.Time
}

// IntegrityReport is the outcome of validating a selection against its pool.
type IntegrityReport struct {
	AllWinnersAreParticipants bool
	NoDuplicateWinners        bool
	WinnerCountReasonable     bool
	WinnersNotEmpty           bool
}

// Valid reports whether every integrity check passed.
func (r IntegrityReport) Valid() bool {
	return r.AllWinnersAreParticipants && r.NoDuplicateWinners &&
		r.WinnerCountReasonable && r.WinnersNotEmpty
}

// Selector performs sampling without replacement over an eligible pool. It is
// stateless and pool-agnostic: eligibility filtering belongs to the caller.
type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

// SelectCryptographic samples winnerCount distinct ids from participants
// using a CSPRNG. Each draw uses crypto/rand.Int, which produces unbiased
// bounded integers via rejection sampling; plain modulo reduction would skew
// probabilities for pool sizes that are not powers of two.
func (s *Selector) SelectCryptographic(participants []int64, winnerCount int) ([]int64, error) {
	if len(participants) == 0 || winnerCount <= 0 {
		return []int64{}, nil
	}
	if winnerCount >= len(participants) {
		out := make([]int64, len(participants))
		copy(out, participants)
		return out, nil
	}

	available := make([]int64, len(participants))
	copy(available, participants)

	winners := make([]int64, 0, winnerCount)
	for len(winners) < winnerCount {
		idxBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(available))))
		if err != nil {
			return nil, fmt.Errorf("failed to generate random index: %w", err)
		}
		idx := int(idxBig.Int64())
		winners = append(winners, available[idx])
		available = append(available[:idx], available[idx+1:]...)
	}

	return winners, nil
}

// SelectWithSeed shuffles the pool deterministically from a seed string and
// takes the first winnerCount entries. Identical inputs produce identical
// output across invocations and process restarts.
func (s *Selector) SelectWithSeed(participants []int64, winnerCount int, seed string) []int64 {
	if len(participants) == 0 || winnerCount <= 0 {
		return []int64{}
	}
	if winnerCount >= len(participants) {
		out := make([]int64, len(participants))
		copy(out, participants)
		return out
	}

	digest := sha256.Sum256([]byte(seed))
	src := mrand.NewSource(int64(binary.BigEndian.Uint64(digest[:8])))
	rng := mrand.New(src)

	shuffled := make([]int64, len(participants))
	copy(shuffled, participants)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:winnerCount]
}

// GenerateSeed derives a fresh seed for deterministic mode from the giveaway
// id, the current time and a block of secure random bytes.
func (s *Selector) GenerateSeed(giveawayID int64) (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	seedData := fmt.Sprintf("%d:%s:%s",
		giveawayID,
		time.Now().UTC().Format(time.RFC3339Nano),
		hex.EncodeToString(randomBytes),
	)

	digest := sha256.Sum256([]byte(seedData))
	return hex.EncodeToString(digest[:]), nil
}

// Select runs a full selection in the requested mode and returns the audit
// result. When useSeed is set and customSeed is empty, a fresh seed is
// derived for the giveaway.
func (s *Selector) Select(participants []int64, winnerCount int, giveawayID int64, useSeed bool, customSeed string) (*Result, error) {
	result := &Result{
		TotalParticipants:  len(participants),
		WinnerCountReq:     winnerCount,
		SelectionTimestamp: time.Now().UTC(),
	}

	if useSeed {
		seed := customSeed
		if seed == "" {
			generated, err := s.GenerateSeed(giveawayID)
			if err != nil {
				return nil, err
			}
			seed = generated
		}
		result.Winners = s.SelectWithSeed(participants, winnerCount, seed)
		result.Method = MethodDeterministic
		result.Seed = seed
	} else {
		winners, err := s.SelectCryptographic(participants, winnerCount)
		if err != nil {
			return nil, err
		}
		result.Winners = winners
		result.Method = MethodCryptographic
	}

	result.WinnerCountSel = len(result.Winners)
	return result, nil
}

// ValidateIntegrity checks a selection against its pool: winners must all be
// participants, distinct, no more numerous than the pool, and non-empty
// whenever the pool is non-empty.
func ValidateIntegrity(participants, winners []int64) IntegrityReport {
	inPool := make(map[int64]bool, len(participants))
	for _, id := range participants {
		inPool[id] = true
	}

	report := IntegrityReport{
		AllWinnersAreParticipants: true,
		NoDuplicateWinners:        true,
		WinnerCountReasonable:     len(winners) <= len(participants),
		WinnersNotEmpty:           len(winners) > 0 || len(participants) == 0,
	}

	seen := make(map[int64]bool, len(winners))
	for _, id := range winners {
		if !inPool[id] {
			report.AllWinnersAreParticipants = false
		}
		if seen[id] {
			report.NoDuplicateWinners = false
		}
		seen[id] = true
	}

	return report
}
