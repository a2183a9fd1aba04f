package spectate

import (
	"fmt"
	"math"
	"strings"

	"github.com/ayusman/flaphand/internal/game"
)

const (
	cellEmpty = ' '
	cellPipe  = '#'
	cellBird  = '>'
)

// Board draws snap as cols x rows of text framed by a border, preceded by one
// status line. Game coordinates are scaled to fit the grid.
func Board(snap game.Snapshot, cfg game.Config, cols, rows int) []string {
	cellW := cfg.ScreenWidth / float64(cols)
	cellH := cfg.ScreenHeight / float64(rows)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(cellEmpty), cols))
	}

	for _, p := range snap.Pipes {
		c0 := int(math.Floor(p.X / cellW))
		c1 := int(math.Ceil((p.X+cfg.PipeWidth)/cellW)) - 1
		c0, c1 = max(c0, 0), min(c1, cols-1)
		for r := 0; r < rows; r++ {
			y := (float64(r) + 0.5) * cellH
			if y >= p.GapTop && y <= p.GapBottom {
				continue
			}
			for c := c0; c <= c1; c++ {
				grid[r][c] = cellPipe
			}
		}
	}

	bc := clamp(int((cfg.BirdX+cfg.BirdWidth/2)/cellW), cols)
	br := clamp(int((snap.BirdY+cfg.BirdHeight/2)/cellH), rows)
	grid[br][bc] = cellBird

	lines := make([]string, 0, rows+3)
	lines = append(lines, status(snap))
	border := "+" + strings.Repeat("-", cols) + "+"
	lines = append(lines, border)
	for _, row := range grid {
		lines = append(lines, "|"+string(row)+"|")
	}
	lines = append(lines, border)
	return lines
}

func status(snap game.Snapshot) string {
	s := fmt.Sprintf("%-9s score %d  best %d  stage %d", snap.Phase, snap.Score, snap.Highest, snap.Stage)
	if snap.Phase == game.PhaseGameOver.String() && snap.LastScore != nil {
		s += fmt.Sprintf("  last run %d", *snap.LastScore)
	}
	return s
}

func clamp(v, n int) int {
	return max(0, min(v, n-1))
}
