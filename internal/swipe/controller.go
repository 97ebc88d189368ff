package swipe

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// State of the stack controller.
type State int

const (
	StateEmpty State = iota
	StateFilling
	StateReady
	StateAwaitingCommitSettle
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateReady:
		return "ready"
	case StateAwaitingCommitSettle:
		return "awaiting_commit_settle"
	default:
		return "unknown"
	}
}

// Defaults for Options.
const (
	DefaultMaxCards    = 5
	DefaultCardWidth   = 320.0
	DefaultSettleDelay = 300 * time.Millisecond
)

// Options configures a Controller.
type Options struct {
	MaxCards    int
	CardWidth   float64
	SettleDelay time.Duration
	Filters     types.Filters
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxCards < 1 {
		o.MaxCards = DefaultMaxCards
	}
	if o.CardWidth <= 0 {
		o.CardWidth = DefaultCardWidth
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

type fetchKind int

const (
	fetchFill fetchKind = iota
	fetchReplacement
)

// Controller keeps the card stack topped up from a RecipeSource, routes
// gestures to the front card and applies commits. All methods, and every
// callback it hands to its Dispatcher, run on one event goroutine; the
// controller is not safe for concurrent use.
type Controller struct {
	source   RecipeSource
	prefs    PreferenceStore
	renderer Renderer
	dispatch Dispatcher
	opts     Options
	logger   *zap.Logger

	stack   *CardStack
	tracker *GestureTracker

	state      State
	filters    types.Filters
	generation uint64
	inflight   int
	fillIssued int
	filling    bool

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewController creates a controller in the Empty state. Call Start to
// begin filling the stack.
func NewController(source RecipeSource, prefs PreferenceStore, renderer Renderer, dispatch Dispatcher, opts Options) *Controller {
	opts = opts.withDefaults()
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if prefs == nil {
		prefs = NewMemoryPreferences()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		source:   source,
		prefs:    prefs,
		renderer: renderer,
		dispatch: dispatch,
		opts:     opts,
		logger:   opts.Logger,
		stack:    NewCardStack(opts.MaxCards, renderer),
		tracker:  NewGestureTracker(renderer, opts.Logger),
		state:    StateEmpty,
		filters:  opts.Filters.Clone(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start fills the stack under the current filters.
func (c *Controller) Start() {
	if c.closed {
		return
	}
	c.rebuild()
}

// ApplyFilters replaces the filter set and rebuilds the stack. In-flight
// fetches issued under the previous filters are discarded when they land.
func (c *Controller) ApplyFilters(filters types.Filters) {
	if c.closed {
		return
	}
	c.filters = filters.Clone()
	c.logger.Info("filters applied", zap.Any("filters", c.filters))
	c.rebuild()
}

// HandleGesture feeds one drag sample to the front card.
func (c *Controller) HandleGesture(s GestureSample) {
	if c.closed {
		return
	}
	if c.state != StateReady && c.state != StateFilling {
		c.logger.Debug("gesture ignored", zap.Stringer("state", c.state), zap.Stringer("phase", s.Phase))
		return
	}
	verdict, done := c.tracker.Handle(s)
	if !done || !verdict.Committed() {
		return
	}
	c.commit(verdict)
}

// Close cancels outstanding fetches and detaches the tracker. Callbacks
// that arrive afterwards are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.tracker.Unbind()
}

func (c *Controller) State() State              { return c.state }
func (c *Controller) Filters() types.Filters    { return c.filters.Clone() }
func (c *Controller) Generation() uint64        { return c.generation }
func (c *Controller) Cards() []types.RecipeCard { return c.stack.Cards() }
func (c *Controller) Pending() int              { return c.inflight }

// Front returns the card gestures are currently bound to.
func (c *Controller) Front() (types.RecipeCard, bool) { return c.tracker.Card() }

// Threshold returns the commit distance of the bound card.
func (c *Controller) Threshold() float64 { return c.tracker.Threshold() }

func (c *Controller) rebuild() {
	c.generation++
	c.tracker.Unbind()
	c.stack.Clear()
	c.inflight = 0
	c.fillIssued = 0
	c.filling = true
	c.state = StateFilling
	c.renderer.ShowEmpty(false)
	c.logger.Debug("rebuilding stack", zap.Uint64("generation", c.generation))
	c.fillNext()
}

// fillNext issues the next sequential fill fetch, or ends the fill cycle
// once N fetches were issued or the stack is full.
func (c *Controller) fillNext() {
	if !c.filling {
		return
	}
	if c.fillIssued >= c.opts.MaxCards || c.stack.Len()+c.inflight >= c.opts.MaxCards {
		c.finishFill()
		return
	}
	c.fillIssued++
	c.fetch(fetchFill)
}

func (c *Controller) finishFill() {
	c.filling = false
	if c.state == StateFilling {
		c.state = StateReady
	}
	c.settleIdle()
}

func (c *Controller) fetch(kind fetchKind) {
	gen := c.generation
	filters := c.filters.Clone()
	ctx := c.ctx
	c.inflight++

	var card types.RecipeCard
	var err error
	c.dispatch.Go(func() {
		card, err = c.source.Fetch(ctx, filters)
	}, func() {
		c.onFetched(gen, kind, card, err)
	})
}

func (c *Controller) onFetched(gen uint64, kind fetchKind, card types.RecipeCard, err error) {
	if c.closed {
		return
	}
	if gen != c.generation {
		c.logger.Debug("dropping stale fetch result",
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.generation),
			zap.String("card_id", card.ID),
		)
		return
	}
	c.inflight--

	if err != nil {
		c.logger.Warn("recipe fetch failed", zap.Error(err), zap.Int("stack", c.stack.Len()))
		if kind == fetchFill {
			c.finishFill()
		} else {
			c.settleIdle()
		}
		return
	}

	if perr := c.stack.Push(card); perr != nil {
		c.logger.Warn("recipe not added to stack", zap.Error(perr), zap.String("card_id", card.ID))
	} else {
		c.logger.Debug("recipe added", zap.String("card_id", card.ID), zap.Int("stack", c.stack.Len()))
		c.bindFront()
	}

	if kind == fetchFill {
		c.fillNext()
		return
	}
	c.settleIdle()
}

func (c *Controller) commit(verdict Verdict) {
	card, _ := c.tracker.Card()
	c.tracker.Unbind()
	c.state = StateAwaitingCommitSettle

	gen := c.generation
	c.logger.Info("recipe swiped", zap.String("card_id", card.ID), zap.Stringer("verdict", verdict))
	c.dispatch.After(c.opts.SettleDelay, func() {
		c.onSettled(gen, card, verdict)
	})
}

func (c *Controller) onSettled(gen uint64, card types.RecipeCard, verdict Verdict) {
	if c.closed {
		return
	}
	// The verdict is final once the gesture ended, even if a filter change
	// already discarded the card.
	c.record(card, verdict)

	if gen != c.generation {
		return
	}

	if front, ok := c.stack.Front(); ok && front.ID == card.ID {
		c.stack.PopFront()
	}
	c.state = StateReady
	if c.filling {
		c.state = StateFilling
	}
	c.bindFront()

	if c.stack.Len()+c.inflight < c.opts.MaxCards {
		c.fetch(fetchReplacement)
	}
	c.settleIdle()
}

func (c *Controller) record(card types.RecipeCard, verdict Verdict) {
	ctx := c.ctx
	switch verdict {
	case VerdictLike:
		var err error
		c.dispatch.Go(func() {
			err = c.prefs.Add(ctx, card)
		}, func() {
			if err != nil {
				c.logger.Error("failed to save liked recipe", zap.Error(err), zap.String("card_id", card.ID))
			}
		})
	case VerdictDislike:
		rec, ok := c.prefs.(DislikeRecorder)
		if !ok {
			return
		}
		var err error
		c.dispatch.Go(func() {
			err = rec.AddDislike(ctx, card)
		}, func() {
			if err != nil {
				c.logger.Error("failed to record dislike", zap.Error(err), zap.String("card_id", card.ID))
			}
		})
	}
}

// bindFront attaches the tracker to the front card unless a commit is
// still settling or the tracker is already bound.
func (c *Controller) bindFront() {
	if c.state == StateAwaitingCommitSettle {
		return
	}
	if _, bound := c.tracker.Card(); bound {
		return
	}
	if front, ok := c.stack.Front(); ok {
		c.tracker.Bind(front, c.opts.CardWidth)
	}
}

// settleIdle reconciles the state and the empty indicator once nothing is
// being filled.
func (c *Controller) settleIdle() {
	if c.state == StateAwaitingCommitSettle || c.filling {
		return
	}
	if c.stack.Len() == 0 && c.inflight == 0 {
		c.state = StateEmpty
		c.renderer.ShowEmpty(true)
		return
	}
	c.state = StateReady
	c.renderer.ShowEmpty(false)
}
