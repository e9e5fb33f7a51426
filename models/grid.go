package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	MinGridSize = 3
	MaxGridSize = 7
)

// Cell is one square of a bingo grid, bound to a single event definition.
// Marked is monotonic: once a cell is marked it is never unmarked.
type Cell struct {
	EventID  string     `json:"event_id"`
	Marked   bool       `json:"marked"`
	MarkedAt *time.Time `json:"marked_at,omitempty"`
}

// Grid is an N×N matrix of cells. The grid itself is the source of truth for
// marked-square counts and patterns; anything cached alongside it is advisory.
type Grid struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// NewGrid builds a size×size grid binding eventIDs to cells in row-major
// order. len(eventIDs) must equal size*size.
func NewGrid(size int, eventIDs []string) (Grid, error) {
	if size < MinGridSize || size > MaxGridSize {
		return Grid{}, fmt.Errorf("grid size must be between %d and %d, got %d", MinGridSize, MaxGridSize, size)
	}
	if len(eventIDs) != size*size {
		return Grid{}, fmt.Errorf("expected %d event IDs for a %dx%d grid, got %d", size*size, size, size, len(eventIDs))
	}

	cells := make([][]Cell, size)
	for row := 0; row < size; row++ {
		cells[row] = make([]Cell, size)
		for col := 0; col < size; col++ {
			cells[row][col] = Cell{EventID: eventIDs[row*size+col]}
		}
	}
	return Grid{Size: size, Cells: cells}, nil
}

// Validate checks that the grid's declared size matches its cell matrix.
func (g Grid) Validate() error {
	if g.Size < MinGridSize || g.Size > MaxGridSize {
		return fmt.Errorf("grid size must be between %d and %d, got %d", MinGridSize, MaxGridSize, g.Size)
	}
	if len(g.Cells) != g.Size {
		return fmt.Errorf("grid has %d rows, expected %d", len(g.Cells), g.Size)
	}
	for row := range g.Cells {
		if len(g.Cells[row]) != g.Size {
			return fmt.Errorf("grid row %d has %d cells, expected %d", row, len(g.Cells[row]), g.Size)
		}
	}
	return nil
}

// MarkEvent marks every unmarked cell bound to eventID, scanning row-major,
// and returns the number of cells that changed. Already-marked cells are left
// untouched, so re-applying the same event is a no-op.
func (g *Grid) MarkEvent(eventID string, markedAt time.Time) int {
	changed := 0
	for row := range g.Cells {
		for col := range g.Cells[row] {
			cell := &g.Cells[row][col]
			if cell.EventID == eventID && !cell.Marked {
				cell.Marked = true
				at := markedAt
				cell.MarkedAt = &at
				changed++
			}
		}
	}
	return changed
}

// MarkedCount recounts marked cells from scratch. Callers persist this value
// instead of incrementing a stored counter, so the count can never drift from
// the grid.
func (g Grid) MarkedCount() int {
	count := 0
	for row := range g.Cells {
		for _, cell := range g.Cells[row] {
			if cell.Marked {
				count++
			}
		}
	}
	return count
}

// Value implements driver.Valuer so grids can be stored as JSONB.
func (g Grid) Value() (driver.Value, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grid: %w", err)
	}
	return data, nil
}

// Scan implements sql.Scanner for JSONB grid columns.
func (g *Grid) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return fmt.Errorf("cannot scan grid from %T", src)
	}
}
