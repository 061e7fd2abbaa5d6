package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstMatch(t *testing.T) {
	current, challenger := withDeficit("a", 1), withDeficit("b", 1)
	assert.Same(t, current, FirstMatch(current, challenger))
}

func TestRoundRobinTieBreak(t *testing.T) {
	current, challenger := withDeficit("a", 1), withDeficit("b", 1)
	tieBreak := RoundRobinTieBreak()

	assert.Same(t, challenger, tieBreak(current, challenger))
	assert.Same(t, current, tieBreak(current, challenger))
	assert.Same(t, challenger, tieBreak(current, challenger))
}

func TestRandomTieBreak(t *testing.T) {
	current, challenger := withDeficit("a", 1), withDeficit("b", 1)

	t.Run("same seed gives the same sequence", func(t *testing.T) {
		first, second := RandomTieBreak(42), RandomTieBreak(42)
		for i := 0; i < 50; i++ {
			assert.Same(t, first(current, challenger), second(current, challenger), "call %d", i)
		}
	})

	t.Run("both candidates are chosen", func(t *testing.T) {
		tieBreak := RandomTieBreak(7)
		picked := map[string]int{}
		for i := 0; i < 200; i++ {
			picked[tieBreak(current, challenger).ID()]++
		}
		assert.Positive(t, picked["a"])
		assert.Positive(t, picked["b"])
	})
}

func TestTieBreakerByName(t *testing.T) {
	for _, name := range []string{"", TieBreakRandom, TieBreakFirstMatch, TieBreakRoundRobin} {
		t.Run("name "+name, func(t *testing.T) {
			tieBreak, err := TieBreakerByName(name, 3)
			require.NoError(t, err)
			assert.NotNil(t, tieBreak)
		})
	}

	t.Run("first match is deterministic", func(t *testing.T) {
		tieBreak, err := TieBreakerByName(TieBreakFirstMatch, 0)
		require.NoError(t, err)
		current := withDeficit("a", 1)
		assert.Same(t, current, tieBreak(current, withDeficit("b", 1)))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := TieBreakerByName("alphabetical", 0)
		assert.ErrorContains(t, err, `unknown tie-break strategy "alphabetical"`)
	})
}
