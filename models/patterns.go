package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type PatternType string

const (
	PatternTypeRow      PatternType = "row"
	PatternTypeColumn   PatternType = "column"
	PatternTypeDiagonal PatternType = "diagonal"
	PatternTypeBlackout PatternType = "blackout"
)

const (
	DiagonalMain = "main"
	DiagonalAnti = "anti"
)

// Pattern is a completed geometric condition on a grid. Rows and columns
// carry a zero-based Index; diagonals carry a Direction; blackout carries
// neither.
type Pattern struct {
	Type      PatternType `json:"type"`
	Index     int         `json:"index"`
	Direction string      `json:"direction,omitempty"`
}

// PatternList is stored alongside a card as an advisory JSONB cache; the grid
// remains the source of truth.
type PatternList []Pattern

func (p PatternList) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patterns: %w", err)
	}
	return data, nil
}

func (p *PatternList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan patterns from %T", src)
	}
}

// DetectPatterns derives the completed patterns of a grid. It is pure and
// deterministic: the output order is always rows ascending, columns
// ascending, main diagonal, anti diagonal, blackout. Blackout is additive to
// whatever else was found, never a replacement.
func DetectPatterns(g Grid) PatternList {
	patterns := PatternList{}

	for row := 0; row < g.Size; row++ {
		complete := true
		for col := 0; col < g.Size; col++ {
			if !g.Cells[row][col].Marked {
				complete = false
				break
			}
		}
		if complete {
			patterns = append(patterns, Pattern{Type: PatternTypeRow, Index: row})
		}
	}

	for col := 0; col < g.Size; col++ {
		complete := true
		for row := 0; row < g.Size; row++ {
			if !g.Cells[row][col].Marked {
				complete = false
				break
			}
		}
		if complete {
			patterns = append(patterns, Pattern{Type: PatternTypeColumn, Index: col})
		}
	}

	mainComplete := true
	antiComplete := true
	for i := 0; i < g.Size; i++ {
		if !g.Cells[i][i].Marked {
			mainComplete = false
		}
		if !g.Cells[i][g.Size-1-i].Marked {
			antiComplete = false
		}
	}
	if mainComplete {
		patterns = append(patterns, Pattern{Type: PatternTypeDiagonal, Direction: DiagonalMain})
	}
	if antiComplete {
		patterns = append(patterns, Pattern{Type: PatternTypeDiagonal, Direction: DiagonalAnti})
	}

	if g.MarkedCount() == g.Size*g.Size {
		patterns = append(patterns, Pattern{Type: PatternTypeBlackout})
	}

	return patterns
}

// HasBlackout reports whether the list contains a blackout pattern.
func (p PatternList) HasBlackout() bool {
	for _, pattern := range p {
		if pattern.Type == PatternTypeBlackout {
			return true
		}
	}
	return false
}

var (
	rarityLineWeight     = decimal.NewFromInt(1)
	rarityDiagonalWeight = decimal.RequireFromString("1.5")
	rarityBlackoutWeight = decimal.NewFromInt(5)
)

// RarityScore assigns a deterministic display weight to a pattern list.
// Lines score 1, diagonals 1.5, blackout 5 scaled by grid size. The score
// rides along on card-update broadcasts so clients can rank completions
// without re-deriving anything.
func RarityScore(patterns PatternList, gridSize int) decimal.Decimal {
	score := decimal.Zero
	for _, p := range patterns {
		switch p.Type {
		case PatternTypeRow, PatternTypeColumn:
			score = score.Add(rarityLineWeight)
		case PatternTypeDiagonal:
			score = score.Add(rarityDiagonalWeight)
		case PatternTypeBlackout:
			score = score.Add(rarityBlackoutWeight.Mul(decimal.NewFromInt(int64(gridSize))))
		}
	}
	return score
}
