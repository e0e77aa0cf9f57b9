package render

import (
	"fmt"
	"strings"
)

func formatStatus(s Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, " tick %d  event %d", s.Tick, s.Event)
	if s.Note != "" {
		fmt.Fprintf(&b, " (%s)", s.Note)
	}
	if s.HasNext {
		fmt.Fprintf(&b, "  next %+.2fs", s.NextIn)
	}
	if s.Paused {
		b.WriteString("  PAUSED")
	}
	if s.Muted {
		b.WriteString("  muted")
	}
	b.WriteString("  speed ")
	return b.String()
}

func formatSpeed(speed float64) string {
	return fmt.Sprintf("%.1f", speed)
}
