package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGrid(t *testing.T, size int) Grid {
	t.Helper()
	eventIDs := make([]string, size*size)
	for i := range eventIDs {
		eventIDs[i] = fmt.Sprintf("ev-%d", i)
	}
	grid, err := NewGrid(size, eventIDs)
	require.NoError(t, err)
	return grid
}

func TestNewGrid(t *testing.T) {
	t.Run("BindsEventIDsRowMajor", func(t *testing.T) {
		grid := buildGrid(t, 3)
		assert.Equal(t, "ev-0", grid.Cells[0][0].EventID)
		assert.Equal(t, "ev-2", grid.Cells[0][2].EventID)
		assert.Equal(t, "ev-3", grid.Cells[1][0].EventID)
		assert.Equal(t, "ev-8", grid.Cells[2][2].EventID)
	})

	t.Run("RejectsSizeOutOfRange", func(t *testing.T) {
		_, err := NewGrid(2, make([]string, 4))
		require.Error(t, err)

		_, err = NewGrid(8, make([]string, 64))
		require.Error(t, err)
	})

	t.Run("RejectsEventIDCountMismatch", func(t *testing.T) {
		_, err := NewGrid(3, make([]string, 8))
		require.Error(t, err)
	})
}

func TestMarkEvent(t *testing.T) {
	t.Run("MarksEveryMatchingCell", func(t *testing.T) {
		eventIDs := []string{
			"a", "b", "a",
			"c", "a", "b",
			"b", "c", "c",
		}
		grid, err := NewGrid(3, eventIDs)
		require.NoError(t, err)

		changed := grid.MarkEvent("a", time.Now())
		assert.Equal(t, 3, changed)
		assert.True(t, grid.Cells[0][0].Marked)
		assert.True(t, grid.Cells[0][2].Marked)
		assert.True(t, grid.Cells[1][1].Marked)
		assert.False(t, grid.Cells[0][1].Marked)
	})

	t.Run("SecondFireIsNoOp", func(t *testing.T) {
		grid := buildGrid(t, 3)
		require.Equal(t, 1, grid.MarkEvent("ev-4", time.Now()))
		assert.Equal(t, 0, grid.MarkEvent("ev-4", time.Now()))
		assert.Equal(t, 1, grid.MarkedCount())
	})

	t.Run("DoesNotOverwriteMarkedAt", func(t *testing.T) {
		grid := buildGrid(t, 3)
		first := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		grid.MarkEvent("ev-0", first)
		grid.MarkEvent("ev-0", first.Add(time.Hour))
		require.NotNil(t, grid.Cells[0][0].MarkedAt)
		assert.Equal(t, first, *grid.Cells[0][0].MarkedAt)
	})

	t.Run("UnknownEventChangesNothing", func(t *testing.T) {
		grid := buildGrid(t, 3)
		assert.Equal(t, 0, grid.MarkEvent("missing", time.Now()))
		assert.Equal(t, 0, grid.MarkedCount())
	})
}

func TestMarkedCount(t *testing.T) {
	t.Run("RecountsFromGridState", func(t *testing.T) {
		grid := buildGrid(t, 4)
		now := time.Now()
		grid.MarkEvent("ev-0", now)
		grid.MarkEvent("ev-5", now)
		grid.MarkEvent("ev-15", now)
		assert.Equal(t, 3, grid.MarkedCount())
	})
}

func TestGridValidate(t *testing.T) {
	t.Run("AcceptsWellFormedGrid", func(t *testing.T) {
		grid := buildGrid(t, 5)
		assert.NoError(t, grid.Validate())
	})

	t.Run("RejectsRaggedRows", func(t *testing.T) {
		grid := buildGrid(t, 3)
		grid.Cells[1] = grid.Cells[1][:2]
		assert.Error(t, grid.Validate())
	})

	t.Run("RejectsSizeMismatch", func(t *testing.T) {
		grid := buildGrid(t, 3)
		grid.Size = 4
		assert.Error(t, grid.Validate())
	})
}
