package main

import (
	"bufio"
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/swipe"
	"github.com/recipeswipers/recipeswipe/internal/types"
)

// filterStore keeps the user's chosen filters across sessions.
type filterStore interface {
	Preferences(ctx context.Context) (types.Filters, error)
	SavePreferences(ctx context.Context, filters types.Filters) (types.Filters, error)
}

// session wires one engine to a line-oriented terminal. filters is nil when
// nobody is logged in.
type session struct {
	source  swipe.RecipeSource
	prefs   swipe.PreferenceStore
	filters filterStore
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
	options swipe.Options
}

// run drives the engine from s.in until quit, EOF or ctx is done.
func run(ctx context.Context, s session) error {
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	out := &lockedWriter{w: s.out}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop := swipe.NewEventLoop(0)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(loopCtx)
	}()

	ctrl := swipe.NewController(s.source, s.prefs, newTerminalRenderer(out), loop, s.options)
	if err := loop.Do(ctx, ctrl.Start); err != nil {
		return err
	}
	out.Printf("Fetching recipes... type help for commands.\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-loopCtx.Done():
				return
			}
		}
	}()

	defer func() {
		_ = loop.Do(context.Background(), ctrl.Close)
		cancel()
		<-loopDone
	}()

	for {
		var line string
		var open bool
		select {
		case <-ctx.Done():
			return nil
		case line, open = <-lines:
			if !open {
				return nil
			}
		}

		cmd, ok, err := parseCommand(line)
		if err != nil {
			out.Printf("%v\n", err)
			continue
		}
		if !ok {
			continue
		}
		if cmd.kind == cmdQuit {
			return nil
		}
		if err := execute(ctx, loop, ctrl, s.prefs, s.filters, out, cmd); err != nil {
			if errors.Is(err, swipe.ErrLoopStopped) {
				return nil
			}
			out.Printf("error: %v\n", err)
		}
	}
}

func execute(ctx context.Context, loop *swipe.EventLoop, ctrl *swipe.Controller, prefs swipe.PreferenceStore, filters filterStore, out *lockedWriter, cmd command) error {
	switch cmd.kind {
	case cmdDrag:
		return drag(ctx, loop, ctrl, out, cmd.dx, cmd.dy)
	case cmdLike, cmdDislike:
		var threshold float64
		if err := loop.Do(ctx, func() { threshold = ctrl.Threshold() }); err != nil {
			return err
		}
		dx := threshold + 1
		if cmd.kind == cmdDislike {
			dx = -dx
		}
		return drag(ctx, loop, ctrl, out, dx, 0)
	case cmdFilter:
		if err := loop.Do(ctx, func() { ctrl.ApplyFilters(cmd.filters) }); err != nil {
			return err
		}
		if len(cmd.filters) == 0 {
			out.Printf("filters cleared, fetching new recipes\n")
		} else {
			out.Printf("filters set: %v, fetching new recipes\n", map[string]string(cmd.filters))
		}
		if filters != nil {
			if _, err := filters.SavePreferences(ctx, cmd.filters); err != nil {
				out.Printf("could not save filters: %v\n", err)
			}
		}
	case cmdShow:
		var (
			front   types.RecipeCard
			ok      bool
			state   swipe.State
			pending int
		)
		if err := loop.Do(ctx, func() {
			front, ok = ctrl.Front()
			state, pending = ctrl.State(), ctrl.Pending()
		}); err != nil {
			return err
		}
		if !ok {
			out.Printf("no card to show (%s, %d fetch(es) pending)\n", state, pending)
			return nil
		}
		out.Printf("%s", formatCard(front))
	case cmdSaved:
		cards, err := prefs.All(ctx)
		if err != nil {
			return err
		}
		if cmd.id != "" {
			for _, card := range cards {
				if card.ID == cmd.id {
					out.Printf("%s", formatCard(card))
					return nil
				}
			}
			out.Printf("no liked recipe with id %q\n", cmd.id)
			return nil
		}
		if len(cards) == 0 {
			out.Printf("no liked recipes yet\n")
			return nil
		}
		for _, card := range cards {
			out.Printf("* %s (%s)\n", card.Title, card.ID)
		}
	case cmdHelp:
		out.Printf("%s\n", helpText)
	}
	return nil
}

// drag plays a full Start, Move, End gesture on the front card.
func drag(ctx context.Context, loop *swipe.EventLoop, ctrl *swipe.Controller, out *lockedWriter, dx, dy float64) error {
	var bound bool
	err := loop.Do(ctx, func() {
		if _, bound = ctrl.Front(); !bound {
			return
		}
		ctrl.HandleGesture(swipe.GestureSample{Phase: swipe.PhaseStart})
		ctrl.HandleGesture(swipe.GestureSample{Phase: swipe.PhaseMove, OffsetX: dx, OffsetY: dy})
		ctrl.HandleGesture(swipe.GestureSample{Phase: swipe.PhaseEnd, OffsetX: dx, OffsetY: dy})
	})
	if err != nil {
		return err
	}
	if !bound {
		out.Printf("no card to swipe yet\n")
	}
	return nil
}
