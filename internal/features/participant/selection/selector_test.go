package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(100 + i)
	}
	return out
}

func TestSelectCryptographicCounts(t *testing.T) {
	s := NewSelector()

	for _, tc := range []struct {
		name     string
		poolSize int
		count    int
		want     int
	}{
		{"subset", 10, 3, 3},
		{"single", 10, 1, 1},
		{"all requested", 5, 5, 5},
		{"more than pool", 5, 8, 5},
		{"zero", 5, 0, 0},
		{"negative", 5, -2, 0},
		{"empty pool", 0, 3, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			winners, err := s.SelectCryptographic(pool(tc.poolSize), tc.count)
			require.NoError(t, err)
			assert.Len(t, winners, tc.want)

			report := ValidateIntegrity(pool(tc.poolSize), winners)
			assert.True(t, report.NoDuplicateWinners)
			assert.True(t, report.AllWinnersAreParticipants)
		})
	}
}

func TestSelectCryptographicFullPoolExactlyOnce(t *testing.T) {
	s := NewSelector()
	participants := pool(7)

	winners, err := s.SelectCryptographic(participants, 7)
	require.NoError(t, err)

	seen := make(map[int64]int)
	for _, id := range winners {
		seen[id]++
	}
	for _, id := range participants {
		assert.Equal(t, 1, seen[id], "participant %d", id)
	}
}

func TestSelectCryptographicDoesNotMutateInput(t *testing.T) {
	s := NewSelector()
	participants := pool(10)

	_, err := s.SelectCryptographic(participants, 4)
	require.NoError(t, err)
	assert.Equal(t, pool(10), participants)
}

// With a pool of 10 and 3 winners per trial, each id is expected to win
// 3/10 of the trials. Allow 20% tolerance around the expectation.
func TestSelectCryptographicFairness(t *testing.T) {
	s := NewSelector()
	participants := pool(10)

	const trials = 1000
	counts := make(map[int64]int)
	for i := 0; i < trials; i++ {
		winners, err := s.SelectCryptographic(participants, 3)
		require.NoError(t, err)
		for _, id := range winners {
			counts[id]++
		}
	}

	expected := trials * 3 / 10
	lower := expected - expected/5
	upper := expected + expected/5
	for _, id := range participants {
		assert.GreaterOrEqual(t, counts[id], lower, "id %d selected too rarely", id)
		assert.LessOrEqual(t, counts[id], upper, "id %d selected too often", id)
	}
}

func TestSelectWithSeedReproducible(t *testing.T) {
	s := NewSelector()
	participants := pool(20)

	first := s.SelectWithSeed(participants, 5, "seed-X")
	second := s.SelectWithSeed(participants, 5, "seed-X")
	third := s.SelectWithSeed(participants, 5, "seed-X")

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestSelectWithSeedDifferentSeedsDiffer(t *testing.T) {
	s := NewSelector()
	participants := pool(50)

	a := s.SelectWithSeed(participants, 10, "seed-A")
	b := s.SelectWithSeed(participants, 10, "seed-B")

	assert.NotEqual(t, a, b)
}

func TestSelectWithSeedEdgeCases(t *testing.T) {
	s := NewSelector()

	assert.Empty(t, s.SelectWithSeed(pool(5), 0, "x"))
	assert.Empty(t, s.SelectWithSeed(nil, 3, "x"))
	assert.ElementsMatch(t, pool(4), s.SelectWithSeed(pool(4), 9, "x"))
}

func TestGenerateSeed(t *testing.T) {
	s := NewSelector()

	seed1, err := s.GenerateSeed(1)
	require.NoError(t, err)
	seed2, err := s.GenerateSeed(1)
	require.NoError(t, err)

	assert.Len(t, seed1, 64)
	assert.NotEqual(t, seed1, seed2)
}

func TestSelectAuditFields(t *testing.T) {
	s := NewSelector()
	participants := pool(5)

	t.Run("cryptographic mode", func(t *testing.T) {
		result, err := s.Select(participants, 2, 1, false, "")
		require.NoError(t, err)

		assert.Equal(t, MethodCryptographic, result.Method)
		assert.Empty(t, result.Seed)
		assert.Equal(t, 5, result.TotalParticipants)
		assert.Equal(t, 2, result.WinnerCountReq)
		assert.Equal(t, 2, result.WinnerCountSel)
		assert.False(t, result.SelectionTimestamp.IsZero())
	})

	t.Run("deterministic mode with custom seed", func(t *testing.T) {
		result, err := s.Select(participants, 2, 1, true, "audit-seed")
		require.NoError(t, err)

		assert.Equal(t, MethodDeterministic, result.Method)
		assert.Equal(t, "audit-seed", result.Seed)
		assert.Equal(t, 2, result.WinnerCountSel)
	})

	t.Run("deterministic mode derives a seed", func(t *testing.T) {
		result, err := s.Select(participants, 2, 1, true, "")
		require.NoError(t, err)

		assert.Equal(t, MethodDeterministic, result.Method)
		assert.Len(t, result.Seed, 64)
	})

	t.Run("requested capped at pool size", func(t *testing.T) {
		result, err := s.Select(participants, 9, 1, false, "")
		require.NoError(t, err)

		assert.Equal(t, 9, result.WinnerCountReq)
		assert.Equal(t, 5, result.WinnerCountSel)
	})
}

func TestValidateIntegrity(t *testing.T) {
	participants := pool(5)

	t.Run("valid selection", func(t *testing.T) {
		report := ValidateIntegrity(participants, []int64{100, 102})
		assert.True(t, report.Valid())
	})

	t.Run("winner outside pool", func(t *testing.T) {
		report := ValidateIntegrity(participants, []int64{100, 999})
		assert.False(t, report.AllWinnersAreParticipants)
		assert.False(t, report.Valid())
	})

	t.Run("duplicate winners", func(t *testing.T) {
		report := ValidateIntegrity(participants, []int64{100, 100})
		assert.False(t, report.NoDuplicateWinners)
		assert.False(t, report.Valid())
	})

	t.Run("empty pool allows empty winners", func(t *testing.T) {
		report := ValidateIntegrity(nil, nil)
		assert.True(t, report.Valid())
	})

	t.Run("non-empty pool requires winners", func(t *testing.T) {
		report := ValidateIntegrity(participants, nil)
		assert.False(t, report.WinnersNotEmpty)
	})
}
