// Package swipe is the card-stack swipe engine: gesture tracking on the
// front card, the stacked card lifecycle, and the controller that keeps the
// stack filled from a RecipeSource.
package swipe

import (
	"context"
	"time"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// RecipeSource provides recipe cards for the current filter set. Fetch is
// called off the event goroutine and may block; any error is treated as a
// failed fetch and is never retried automatically.
type RecipeSource interface {
	Fetch(ctx context.Context, filters types.Filters) (types.RecipeCard, error)
}

// PreferenceStore persists liked cards keyed by id.
type PreferenceStore interface {
	Add(ctx context.Context, card types.RecipeCard) error
	All(ctx context.Context) ([]types.RecipeCard, error)
}

// DislikeRecorder is an optional extension of PreferenceStore. When the
// store implements it, Dislike commits are reported as well.
type DislikeRecorder interface {
	AddDislike(ctx context.Context, card types.RecipeCard) error
}

// Renderer receives every visual update the engine produces. It holds the
// concrete UI; the engine never references UI elements directly.
type Renderer interface {
	// Layout is called after every stack mutation with the resting
	// transform of each card, front first.
	Layout(placements []Placement)
	// Drag is called for the live transform of the front card while it is
	// being dragged. On release it gets one Animated frame with both
	// highlights at zero, right before Settle.
	Drag(frame DragFrame)
	// Settle triggers the animation that ends a gesture: snap back for
	// Cancel, exit for Like and Dislike.
	Settle(settle Settle)
	// ShowEmpty toggles the "no recipes found" indicator.
	ShowEmpty(empty bool)
}

// Dispatcher runs asynchronous work on behalf of the controller and
// delivers completions back onto the single event-processing goroutine.
type Dispatcher interface {
	// Go runs work off the event goroutine, then runs done on it.
	Go(work func(), done func())
	// After runs fn on the event goroutine once d has elapsed.
	After(d time.Duration, fn func())
}

// NopRenderer discards all visual output.
type NopRenderer struct{}

func (NopRenderer) Layout([]Placement) {}
func (NopRenderer) Drag(DragFrame)     {}
func (NopRenderer) Settle(Settle)      {}
func (NopRenderer) ShowEmpty(bool)     {}
