package swipe

import (
	"errors"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

var (
	ErrStackFull     = errors.New("card stack is full")
	ErrDuplicateCard = errors.New("card already in stack")
	ErrEmptyCardID   = errors.New("card has no id")
)

// Visual spacing between stacked cards.
const (
	StackOffsetStep = 8.0
	StackScaleStep  = 0.03
)

// Placement is the resting transform of one card in the stack.
type Placement struct {
	CardID  string
	Index   int
	OffsetY float64
	Scale   float64
	ZIndex  int
	Opacity float64
}

// CardStack is the ordered set of cards waiting to be swiped. Index 0 is the
// front card. Every mutation re-lays out the stack before returning.
type CardStack struct {
	cards    []types.RecipeCard
	capacity int
	renderer Renderer
}

// NewCardStack returns an empty stack holding at most capacity cards.
func NewCardStack(capacity int, renderer Renderer) *CardStack {
	if capacity < 1 {
		capacity = 1
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &CardStack{
		cards:    make([]types.RecipeCard, 0, capacity),
		capacity: capacity,
		renderer: renderer,
	}
}

// Push appends card to the back of the stack.
func (s *CardStack) Push(card types.RecipeCard) error {
	if card.ID == "" {
		return ErrEmptyCardID
	}
	if len(s.cards) >= s.capacity {
		return ErrStackFull
	}
	for _, c := range s.cards {
		if c.ID == card.ID {
			return ErrDuplicateCard
		}
	}
	s.cards = append(s.cards, card)
	s.layout()
	return nil
}

// PopFront removes and returns the front card. The caller detaches the
// gesture binding first.
func (s *CardStack) PopFront() (types.RecipeCard, bool) {
	if len(s.cards) == 0 {
		return types.RecipeCard{}, false
	}
	front := s.cards[0]
	s.cards = append(s.cards[:0:0], s.cards[1:]...)
	s.layout()
	return front, true
}

// Clear removes every card.
func (s *CardStack) Clear() {
	s.cards = s.cards[:0]
	s.layout()
}

// Front returns the interactive card.
func (s *CardStack) Front() (types.RecipeCard, bool) {
	if len(s.cards) == 0 {
		return types.RecipeCard{}, false
	}
	return s.cards[0], true
}

func (s *CardStack) Len() int { return len(s.cards) }
func (s *CardStack) Cap() int { return s.capacity }

// Cards returns a copy of the stack, front first.
func (s *CardStack) Cards() []types.RecipeCard {
	out := make([]types.RecipeCard, len(s.cards))
	copy(out, s.cards)
	return out
}

// Placements computes the resting transform of every card.
func (s *CardStack) Placements() []Placement {
	out := make([]Placement, len(s.cards))
	for i, c := range s.cards {
		out[i] = Placement{
			CardID:  c.ID,
			Index:   i,
			OffsetY: float64(i) * StackOffsetStep,
			Scale:   1 - float64(i)*StackScaleStep,
			ZIndex:  s.capacity - i,
			Opacity: 1,
		}
	}
	return out
}

func (s *CardStack) layout() {
	s.renderer.Layout(s.Placements())
}
