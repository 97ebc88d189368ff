package swipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// MemoryPreferences is an in-process PreferenceStore.
type MemoryPreferences struct {
	mu    sync.RWMutex
	cards map[string]types.RecipeCard
	order []string
}

// NewMemoryPreferences returns an empty store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{cards: make(map[string]types.RecipeCard)}
}

// Add stores card; adding the same id again keeps a single entry.
func (m *MemoryPreferences) Add(_ context.Context, card types.RecipeCard) error {
	if card.ID == "" {
		return ErrEmptyCardID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.cards[card.ID]; !exists {
		m.order = append(m.order, card.ID)
	}
	m.cards[card.ID] = card
	return nil
}

// All returns the stored cards in the order they were first liked.
func (m *MemoryPreferences) All(_ context.Context) ([]types.RecipeCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.RecipeCard, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.cards[id])
	}
	return out, nil
}

// Get looks up a stored card by id.
func (m *MemoryPreferences) Get(id string) (types.RecipeCard, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	card, ok := m.cards[id]
	return card, ok
}

// Len returns the number of stored cards.
func (m *MemoryPreferences) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cards)
}

// FilePreferences keeps liked cards in a JSON file, rewritten on every Add.
type FilePreferences struct {
	path   string
	mem    *MemoryPreferences
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFilePreferences loads path if it exists. A missing or unreadable file
// starts an empty store; an unreadable one is logged and overwritten on the
// next Add.
func NewFilePreferences(path string, logger *zap.Logger) *FilePreferences {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &FilePreferences{path: path, mem: NewMemoryPreferences(), logger: logger}
	if err := p.load(); err != nil {
		logger.Warn("discarding saved recipes file", zap.String("path", path), zap.Error(err))
		p.mem = NewMemoryPreferences()
	}
	return p
}

func (p *FilePreferences) load() error {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var cards []types.RecipeCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return fmt.Errorf("failed to parse saved recipes: %w", err)
	}
	for _, c := range cards {
		if err := p.mem.Add(context.Background(), c); err != nil {
			return err
		}
	}
	p.logger.Info("loaded saved recipes", zap.Int("count", p.mem.Len()))
	return nil
}

// Add implements PreferenceStore.
func (p *FilePreferences) Add(ctx context.Context, card types.RecipeCard) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mem.Add(ctx, card); err != nil {
		return err
	}
	cards, _ := p.mem.All(ctx)
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal saved recipes: %w", err)
	}
	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write saved recipes: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace saved recipes: %w", err)
	}
	return nil
}

// All implements PreferenceStore.
func (p *FilePreferences) All(ctx context.Context) ([]types.RecipeCard, error) {
	return p.mem.All(ctx)
}
