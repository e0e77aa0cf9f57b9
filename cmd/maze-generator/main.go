// Command maze-generator prompts for maze dimensions and writes layouts in
// the format read by maze-bounce -layout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/maze-bounce/maze"
)

func main() {
	out := flag.String("o", "", "Write the last accepted layout to this file (empty = stdout)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time based)")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)
	var accepted [][]int

	for {
		fmt.Fprintln(os.Stderr, "\n=== MAZE-BOUNCE LAYOUT GENERATOR ===")

		w := getInt(reader, "Columns [odd preferred] (default 31): ", 31)
		h := getInt(reader, "Rows [odd preferred] (default 19): ", 19)
		braid := getFloat(reader, "Braiding factor [0.0 - 1.0] (default 0.3): ", 0.3)

		startT := time.Now()
		res := maze.Generate(maze.GenConfig{
			Width:    w,
			Height:   h,
			Braiding: braid,
			Seed:     *seed,
		})
		dur := time.Since(startT)

		grid, err := maze.NewGrid(res.Layout, float64(len(res.Layout[0])), float64(len(res.Layout)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generated layout rejected: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Done in %v: %dx%d, %d path cells\n",
			dur, grid.Cols(), grid.Rows(), grid.Count(maze.Path))

		preview(os.Stderr, res)
		accepted = res.Layout

		fmt.Fprint(os.Stderr, "\nGenerate another? [y/N]: ")
		cont, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(cont)) != "y" {
			break
		}
		if *seed != 0 {
			*seed++
		}
	}

	if err := save(*out, accepted); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write layout: %v\n", err)
		os.Exit(1)
	}
}

func save(path string, layout [][]int) error {
	if path == "" {
		return maze.WriteLayout(os.Stdout, layout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := maze.WriteLayout(f, layout); err != nil {
		f.Close()
		return err
	}
	fmt.Fprintf(os.Stderr, "Layout written to %s\n", path)
	return f.Close()
}

// preview draws walls as blocks and marks the carve origin
func preview(w io.Writer, res maze.GenResult) {
	bw := bufio.NewWriter(w)
	for y, row := range res.Layout {
		for x, marker := range row {
			switch {
			case x == res.Start.X && y == res.Start.Y:
				bw.WriteString("S")
			case marker == maze.MarkerWall:
				bw.WriteString("█")
			default:
				bw.WriteString(" ")
			}
		}
		bw.WriteByte('\n')
	}
	bw.Flush()
}

// --- Input Helpers ---

func getInt(r *bufio.Reader, prompt string, def int) int {
	fmt.Fprint(os.Stderr, prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getFloat(r *bufio.Reader, prompt string, def float64) float64 {
	fmt.Fprint(os.Stderr, prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return min(max(v, 0), 1)
}
