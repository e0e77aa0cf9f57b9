package maze

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseLayout reads a text layout: one row per line, each cell a '0' or '1'.
// Spaces, commas and brackets are ignored so array literals can be pasted as
// is. Blank lines and lines starting with '#' are skipped
func ParseLayout(r io.Reader) ([][]int, error) {
	var layout [][]int
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		row := make([]int, 0, len(line))
		for _, ch := range line {
			switch ch {
			case '0':
				row = append(row, MarkerWall)
			case '1':
				row = append(row, MarkerPath)
			case ' ', '\t', ',', '[', ']':
			default:
				return nil, fmt.Errorf("%w: unexpected %q on line %d", ErrBadMarker, ch, lineNo)
			}
		}
		if len(row) == 0 {
			continue
		}
		if len(layout) > 0 && len(row) != len(layout[0]) {
			return nil, fmt.Errorf("%w: line %d has %d cells, expected %d", ErrRaggedLayout, lineNo, len(row), len(layout[0]))
		}
		layout = append(layout, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	if len(layout) == 0 {
		return nil, ErrEmptyLayout
	}
	return layout, nil
}

// LoadLayoutFile parses a layout from a file
func LoadLayoutFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout: %w", err)
	}
	defer f.Close()

	layout, err := ParseLayout(f)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return layout, nil
}

// WriteLayout writes layout in the format read by ParseLayout
func WriteLayout(w io.Writer, layout [][]int) error {
	bw := bufio.NewWriter(w)
	for _, row := range layout {
		for _, marker := range row {
			if marker == MarkerWall {
				bw.WriteByte('0')
			} else {
				bw.WriteByte('1')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// BorderedLayout returns a cols x rows layout of path cells enclosed by one
// ring of walls
func BorderedLayout(cols, rows int) [][]int {
	layout := make([][]int, rows)
	for y := range layout {
		layout[y] = make([]int, cols)
		for x := range layout[y] {
			if x == 0 || y == 0 || x == cols-1 || y == rows-1 {
				layout[y][x] = MarkerWall
			} else {
				layout[y][x] = MarkerPath
			}
		}
	}
	return layout
}
