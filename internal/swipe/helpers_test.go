package swipe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

var errFetch = errors.New("fetch failed")

// manualDispatcher queues work and timers so tests decide when they run.
type manualDispatcher struct {
	tasks  []manualTask
	timers []func()
}

type manualTask struct {
	work func()
	done func()
}

func (d *manualDispatcher) Go(work func(), done func()) {
	d.tasks = append(d.tasks, manualTask{work: work, done: done})
}

func (d *manualDispatcher) After(_ time.Duration, fn func()) {
	d.timers = append(d.timers, fn)
}

// runTasks runs queued tasks in order, including tasks queued by them.
func (d *manualDispatcher) runTasks() {
	for len(d.tasks) > 0 {
		t := d.tasks[0]
		d.tasks = d.tasks[1:]
		t.work()
		t.done()
	}
}

// runTask runs only the i-th queued task.
func (d *manualDispatcher) runTask(i int) {
	t := d.tasks[i]
	d.tasks = append(d.tasks[:i:i], d.tasks[i+1:]...)
	t.work()
	t.done()
}

func (d *manualDispatcher) fireTimers() {
	timers := d.timers
	d.timers = nil
	for _, fn := range timers {
		fn()
	}
}

// settle runs everything until nothing is left queued.
func (d *manualDispatcher) settle() {
	for len(d.tasks) > 0 || len(d.timers) > 0 {
		d.runTasks()
		d.fireTimers()
	}
}

type fetchResult struct {
	card types.RecipeCard
	err  error
}

// fakeSource replays scripted results, or calls fn when no script is set.
type fakeSource struct {
	mu      sync.Mutex
	results []fetchResult
	fn      func(types.Filters) (types.RecipeCard, error)
	calls   []types.Filters
}

func (s *fakeSource) Fetch(_ context.Context, filters types.Filters) (types.RecipeCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, filters)
	if s.fn != nil {
		return s.fn(filters)
	}
	if len(s.results) == 0 {
		return types.RecipeCard{}, errFetch
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.card, r.err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fetched(id string) fetchResult {
	return fetchResult{card: newCard(id)}
}

func failed() fetchResult {
	return fetchResult{err: errFetch}
}

func newCard(id string) types.RecipeCard {
	return types.RecipeCard{ID: id, Title: fmt.Sprintf("Recipe %s", id), ShortDescription: "tasty"}
}

type recordingRenderer struct {
	mu      sync.Mutex
	layouts [][]Placement
	drags   []DragFrame
	settles []Settle
	empty   []bool
}

func (r *recordingRenderer) Layout(p []Placement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts = append(r.layouts, p)
}

func (r *recordingRenderer) Drag(f DragFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drags = append(r.drags, f)
}

func (r *recordingRenderer) Settle(s Settle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settles = append(r.settles, s)
}

func (r *recordingRenderer) ShowEmpty(e bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.empty = append(r.empty, e)
}

func (r *recordingRenderer) lastEmpty() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.empty) == 0 {
		return false, false
	}
	return r.empty[len(r.empty)-1], true
}

func (r *recordingRenderer) lastSettle() Settle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settles[len(r.settles)-1]
}

// countingPrefs counts Add and AddDislike calls by card id.
type countingPrefs struct {
	mu       sync.Mutex
	likes    map[string]int
	dislikes map[string]int
	err      error
}

func newCountingPrefs() *countingPrefs {
	return &countingPrefs{likes: map[string]int{}, dislikes: map[string]int{}}
}

func (p *countingPrefs) Add(_ context.Context, c types.RecipeCard) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.likes[c.ID]++
	return p.err
}

func (p *countingPrefs) All(context.Context) ([]types.RecipeCard, error) {
	return nil, nil
}

func (p *countingPrefs) AddDislike(_ context.Context, c types.RecipeCard) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dislikes[c.ID]++
	return p.err
}

func ids(cards []types.RecipeCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// swipeFront sends a full Start/Move/End gesture ending at dx.
func swipeFront(c *Controller, dx float64) {
	c.HandleGesture(GestureSample{Phase: PhaseStart})
	c.HandleGesture(GestureSample{OffsetX: dx / 2, Phase: PhaseMove})
	c.HandleGesture(GestureSample{OffsetX: dx, Phase: PhaseMove})
	c.HandleGesture(GestureSample{OffsetX: dx, Phase: PhaseEnd})
}
