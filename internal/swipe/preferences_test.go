package swipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMemoryPreferences(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryPreferences()

	require.NoError(t, m.Add(ctx, newCard("B")))
	require.NoError(t, m.Add(ctx, newCard("A")))
	updated := newCard("B")
	updated.Title = "Renamed"
	require.NoError(t, m.Add(ctx, updated))
	assert.ErrorIs(t, m.Add(ctx, newCard("")), ErrEmptyCardID)

	all, err := m.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, ids(all))
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get("B")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestFilePreferences_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "saved.json")

	p := NewFilePreferences(path, zaptest.NewLogger(t))
	all, err := p.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, p.Add(ctx, newCard("A")))
	require.NoError(t, p.Add(ctx, newCard("B")))
	require.NoError(t, p.Add(ctx, newCard("A")))

	reloaded := NewFilePreferences(path, zaptest.NewLogger(t))
	all, err = reloaded.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(all))
	assert.Equal(t, "Recipe A", all[0].Title)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFilePreferences_CorruptFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := NewFilePreferences(path, zaptest.NewLogger(t))
	all, err := p.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, p.Add(ctx, newCard("C")))
	reloaded := NewFilePreferences(path, nil)
	all, err = reloaded.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, ids(all))
}
