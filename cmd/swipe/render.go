package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/recipeswipers/recipeswipe/internal/swipe"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

// lockedWriter serializes writes from the event loop and the input loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
}

// terminalRenderer prints engine updates as text lines.
type terminalRenderer struct {
	out       *lockedWriter
	lastCount int
	empty     bool
}

func newTerminalRenderer(out *lockedWriter) *terminalRenderer {
	return &terminalRenderer{out: out, lastCount: -1}
}

func (r *terminalRenderer) Layout(placements []swipe.Placement) {
	if len(placements) == r.lastCount {
		return
	}
	r.lastCount = len(placements)
	if len(placements) == 0 {
		return
	}
	r.out.Printf("[stack] %d card(s), front: %s\n", len(placements), placements[0].CardID)
}

func (r *terminalRenderer) Drag(frame swipe.DragFrame) {
	if frame.Animated {
		// release frame; Settle reports the outcome
		return
	}
	var hint string
	switch {
	case frame.Like > 0:
		hint = fmt.Sprintf(" LIKE %d%%", int(frame.Like*100))
	case frame.Dislike > 0:
		hint = fmt.Sprintf(" NOPE %d%%", int(frame.Dislike*100))
	}
	r.out.Printf("  ~ %s at (%.0f, %.0f) rot %.1f°%s\n", frame.CardID, frame.Offset.X, frame.Offset.Y, frame.Rotation, hint)
}

func (r *terminalRenderer) Settle(settle swipe.Settle) {
	switch settle.Verdict {
	case swipe.VerdictLike:
		r.out.Printf("<3 liked %s\n", settle.CardID)
	case swipe.VerdictDislike:
		r.out.Printf("x  passed on %s\n", settle.CardID)
	default:
		r.out.Printf("   %s snapped back\n", settle.CardID)
	}
}

func (r *terminalRenderer) ShowEmpty(empty bool) {
	if empty && !r.empty {
		r.out.Printf("No recipes found. Try different filters.\n")
	}
	r.empty = empty
}

// formatCard renders a full card for the show and saved commands.
func formatCard(card types.RecipeCard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (%s)\n", card.Title, card.ID)
	if card.ShortDescription != "" {
		fmt.Fprintf(&b, "  %s\n", card.ShortDescription)
	}
	var meta []string
	if card.PrepTimeMinutes != nil {
		meta = append(meta, fmt.Sprintf("%d min", *card.PrepTimeMinutes))
	}
	if card.Difficulty != "" {
		meta = append(meta, card.Difficulty)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "  %s\n", strings.Join(meta, " · "))
	}
	if len(card.Ingredients) > 0 {
		fmt.Fprintf(&b, "  ingredients: %s\n", strings.Join(card.Ingredients, ", "))
	}
	for i, step := range card.Instructions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}
	return b.String()
}
