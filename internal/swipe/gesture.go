package swipe

import (
	"math"

	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// Phase is the stage of a drag gesture a sample belongs to.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// GestureSample is one pointer sample. Offsets are measured from the point
// where the gesture started.
type GestureSample struct {
	OffsetX float64
	OffsetY float64
	Phase   Phase
}

// Verdict is the outcome of a finished gesture.
type Verdict int

const (
	VerdictCancel Verdict = iota
	VerdictLike
	VerdictDislike
)

// String returns the direction name the backend expects for swipes.
func (v Verdict) String() string {
	switch v {
	case VerdictLike:
		return "like"
	case VerdictDislike:
		return "dislike"
	default:
		return "cancel"
	}
}

// Committed reports whether the verdict removes the card from the stack.
func (v Verdict) Committed() bool {
	return v == VerdictLike || v == VerdictDislike
}

// Gesture tuning. The threshold itself is a third of the card width.
const (
	RotationDivisor = 10.0
	HighlightCap    = 0.8
	HighlightDead   = 10.0
	MinThreshold    = 1.0
)

// Offset is a 2D translation in pixels.
type Offset struct {
	X float64
	Y float64
}

// DragFrame is the live transform of the card under the pointer.
type DragFrame struct {
	CardID   string
	Offset   Offset
	Rotation float64
	Like     float64
	Dislike  float64
	Animated bool
}

// Settle describes how a gesture ends visually. Offset is the resting
// offset for Cancel and the last live offset for commits.
type Settle struct {
	CardID   string
	Verdict  Verdict
	Offset   Offset
	Animated bool
}

// Threshold returns the horizontal distance a card must travel to commit.
func Threshold(cardWidth float64) float64 {
	t := cardWidth / 3
	if t < MinThreshold || math.IsNaN(t) {
		return MinThreshold
	}
	return t
}

// Highlight returns the like and dislike overlay strengths for a horizontal
// drag distance. At most one of the two is non-zero.
func Highlight(offsetX, threshold float64) (like, dislike float64) {
	if threshold < MinThreshold {
		threshold = MinThreshold
	}
	intensity := math.Min(math.Abs(offsetX)/threshold, HighlightCap)
	switch {
	case offsetX > HighlightDead:
		return intensity, 0
	case offsetX < -HighlightDead:
		return 0, intensity
	default:
		return 0, 0
	}
}

// GestureTracker turns the drag samples of the front card into live
// transforms and, on release, into a Verdict. It is bound to one card at a
// time and must only be used from the event goroutine.
type GestureTracker struct {
	renderer Renderer
	logger   *zap.Logger

	card      types.RecipeCard
	bound     bool
	threshold float64

	rest   Offset
	origin Offset
	live   Offset
	active bool
}

// NewGestureTracker creates an unbound tracker.
func NewGestureTracker(renderer Renderer, logger *zap.Logger) *GestureTracker {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GestureTracker{
		renderer:  renderer,
		logger:    logger,
		threshold: MinThreshold,
	}
}

// Bind attaches the tracker to card, dropping any unresolved gesture on the
// previous card.
func (t *GestureTracker) Bind(card types.RecipeCard, cardWidth float64) {
	t.card = card
	t.bound = true
	t.threshold = Threshold(cardWidth)
	t.rest = Offset{}
	t.origin = Offset{}
	t.live = Offset{}
	t.active = false
}

// Unbind detaches the tracker from its card.
func (t *GestureTracker) Unbind() {
	t.card = types.RecipeCard{}
	t.bound = false
	t.active = false
}

// Card returns the bound card.
func (t *GestureTracker) Card() (types.RecipeCard, bool) {
	return t.card, t.bound
}

// Active reports whether a gesture is in progress.
func (t *GestureTracker) Active() bool { return t.active }

// Threshold returns the commit distance for the bound card.
func (t *GestureTracker) Threshold() float64 { return t.threshold }

// Live returns the current offset of the bound card.
func (t *GestureTracker) Live() Offset { return t.live }

// Handle consumes one sample. It returns the verdict and true only for the
// End sample of a well-formed gesture; every other sample yields false.
func (t *GestureTracker) Handle(s GestureSample) (Verdict, bool) {
	if !t.bound {
		t.logger.Warn("gesture sample without a bound card", zap.Stringer("phase", s.Phase))
		return VerdictCancel, false
	}

	switch s.Phase {
	case PhaseStart:
		if t.active {
			t.logger.Warn("gesture start while a gesture is unresolved", zap.String("card_id", t.card.ID))
			return VerdictCancel, false
		}
		t.active = true
		t.origin = t.rest
		t.live = t.origin
		t.renderer.Drag(DragFrame{CardID: t.card.ID, Offset: t.live})
		return VerdictCancel, false

	case PhaseMove:
		if !t.active {
			t.logger.Warn("gesture move without start", zap.String("card_id", t.card.ID))
			return VerdictCancel, false
		}
		t.move(s)
		return VerdictCancel, false

	case PhaseEnd:
		if !t.active {
			t.logger.Warn("gesture end without start", zap.String("card_id", t.card.ID))
			return VerdictCancel, false
		}
		t.move(s)
		return t.end(s.OffsetX), true

	default:
		t.logger.Warn("unknown gesture phase", zap.Int("phase", int(s.Phase)))
		return VerdictCancel, false
	}
}

func (t *GestureTracker) move(s GestureSample) {
	t.live = Offset{X: t.origin.X + s.OffsetX, Y: t.origin.Y + s.OffsetY}
	like, dislike := Highlight(s.OffsetX, t.threshold)
	t.renderer.Drag(DragFrame{
		CardID:   t.card.ID,
		Offset:   t.live,
		Rotation: s.OffsetX / RotationDivisor,
		Like:     like,
		Dislike:  dislike,
	})
}

func (t *GestureTracker) end(offsetX float64) Verdict {
	t.active = false

	verdict := VerdictCancel
	if math.Abs(offsetX) > t.threshold {
		verdict = VerdictDislike
		if offsetX > 0 {
			verdict = VerdictLike
		}
	}

	final := t.live
	if verdict == VerdictCancel {
		final = Offset{}
		t.live = final
	}
	t.rest = Offset{}

	// Release clears both overlays before the settle animation starts.
	t.renderer.Drag(DragFrame{
		CardID:   t.card.ID,
		Offset:   final,
		Rotation: final.X / RotationDivisor,
		Animated: true,
	})
	t.renderer.Settle(Settle{
		CardID:   t.card.ID,
		Verdict:  verdict,
		Offset:   final,
		Animated: true,
	})
	t.logger.Debug("gesture resolved",
		zap.String("card_id", t.card.ID),
		zap.Stringer("verdict", verdict),
		zap.Float64("offset_x", offsetX),
		zap.Float64("threshold", t.threshold),
	)
	return verdict
}
