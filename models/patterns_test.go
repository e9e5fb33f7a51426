package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markAll(t *testing.T, grid *Grid, except ...[2]int) {
	t.Helper()
	skip := make(map[[2]int]bool, len(except))
	for _, pos := range except {
		skip[pos] = true
	}
	now := time.Now()
	for row := range grid.Cells {
		for col := range grid.Cells[row] {
			if skip[[2]int{row, col}] {
				continue
			}
			grid.Cells[row][col].Marked = true
			at := now
			grid.Cells[row][col].MarkedAt = &at
		}
	}
}

func TestDetectPatterns(t *testing.T) {
	t.Run("EmptyGridHasNoPatterns", func(t *testing.T) {
		grid := buildGrid(t, 5)
		assert.Empty(t, DetectPatterns(grid))
	})

	t.Run("SingleRow", func(t *testing.T) {
		grid := buildGrid(t, 3)
		now := time.Now()
		grid.MarkEvent("ev-3", now)
		grid.MarkEvent("ev-4", now)
		grid.MarkEvent("ev-5", now)

		patterns := DetectPatterns(grid)
		require.Len(t, patterns, 1)
		assert.Equal(t, Pattern{Type: PatternTypeRow, Index: 1}, patterns[0])
	})

	t.Run("SingleColumn", func(t *testing.T) {
		grid := buildGrid(t, 3)
		now := time.Now()
		grid.MarkEvent("ev-2", now)
		grid.MarkEvent("ev-5", now)
		grid.MarkEvent("ev-8", now)

		patterns := DetectPatterns(grid)
		require.Len(t, patterns, 1)
		assert.Equal(t, Pattern{Type: PatternTypeColumn, Index: 2}, patterns[0])
	})

	t.Run("AllButOneOffDiagonalCell", func(t *testing.T) {
		// A 5x5 grid missing only the cell at (1,3) keeps both diagonals
		// intact, loses row 1 and column 3, completes everything else.
		grid := buildGrid(t, 5)
		markAll(t, &grid, [2]int{1, 3})

		patterns := DetectPatterns(grid)
		expected := PatternList{
			{Type: PatternTypeRow, Index: 0},
			{Type: PatternTypeRow, Index: 2},
			{Type: PatternTypeRow, Index: 3},
			{Type: PatternTypeRow, Index: 4},
			{Type: PatternTypeColumn, Index: 0},
			{Type: PatternTypeColumn, Index: 1},
			{Type: PatternTypeColumn, Index: 2},
			{Type: PatternTypeColumn, Index: 4},
			{Type: PatternTypeDiagonal, Direction: DiagonalMain},
			{Type: PatternTypeDiagonal, Direction: DiagonalAnti},
		}
		assert.Equal(t, expected, patterns)
	})

	t.Run("BlackoutIsAdditive", func(t *testing.T) {
		grid := buildGrid(t, 3)
		markAll(t, &grid)

		patterns := DetectPatterns(grid)
		// 3 rows + 3 columns + 2 diagonals + blackout
		require.Len(t, patterns, 9)
		assert.Equal(t, Pattern{Type: PatternTypeBlackout}, patterns[8])
	})

	t.Run("NoBlackoutWithOneCellUnmarked", func(t *testing.T) {
		grid := buildGrid(t, 3)
		markAll(t, &grid, [2]int{2, 2})

		for _, pattern := range DetectPatterns(grid) {
			assert.NotEqual(t, PatternTypeBlackout, pattern.Type)
		}
	})

	t.Run("DeterministicOutputOrder", func(t *testing.T) {
		grid := buildGrid(t, 4)
		markAll(t, &grid)

		first := DetectPatterns(grid)
		second := DetectPatterns(grid)
		assert.Equal(t, first, second)
	})
}

func TestPatternJSONKeepsZeroIndex(t *testing.T) {
	// Row and column zero must serialize with an explicit index.
	data, err := json.Marshal(Pattern{Type: PatternTypeRow, Index: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"row","index":0}`, string(data))

	data, err = json.Marshal(Pattern{Type: PatternTypeColumn, Index: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"column","index":0}`, string(data))
}

func TestHasBlackout(t *testing.T) {
	assert.False(t, PatternList{{Type: PatternTypeRow, Index: 0}}.HasBlackout())
	assert.True(t, PatternList{{Type: PatternTypeRow, Index: 0}, {Type: PatternTypeBlackout}}.HasBlackout())
}

func TestRarityScore(t *testing.T) {
	t.Run("LinesScoreOne", func(t *testing.T) {
		patterns := PatternList{
			{Type: PatternTypeRow, Index: 0},
			{Type: PatternTypeColumn, Index: 2},
		}
		assert.True(t, RarityScore(patterns, 5).Equal(decimal.NewFromInt(2)))
	})

	t.Run("DiagonalsScoreOneAndAHalf", func(t *testing.T) {
		patterns := PatternList{{Type: PatternTypeDiagonal, Direction: DiagonalMain}}
		assert.True(t, RarityScore(patterns, 5).Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("BlackoutScalesWithGridSize", func(t *testing.T) {
		patterns := PatternList{{Type: PatternTypeBlackout}}
		assert.True(t, RarityScore(patterns, 3).Equal(decimal.NewFromInt(15)))
		assert.True(t, RarityScore(patterns, 5).Equal(decimal.NewFromInt(25)))
	})

	t.Run("EmptyListScoresZero", func(t *testing.T) {
		assert.True(t, RarityScore(PatternList{}, 5).IsZero())
	})
}
