package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/session"
)

func newBoard() *board.Board {
	return board.New(catalog.New(nil, ""))
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, zap.NewNop())
	defer h.Shutdown()

	code, s1, err := h.Create(ctx, newBoard())
	require.NoError(t, err)
	require.Len(t, code, 6)

	s2, err := h.Get(ctx, code)
	require.NoError(t, err)

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_GetUnknownIsNil(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, zap.NewNop())
	defer h.Shutdown()

	s, err := h.Get(ctx, "NOPE00")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestHub_RemoveShutsSessionDown(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, zap.NewNop())
	defer h.Shutdown()

	code, s, err := h.Create(ctx, newBoard())
	require.NoError(t, err)
	require.NoError(t, h.Remove(ctx, code))

	select {
	case <-s.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("session still running after remove")
	}

	got, err := h.Get(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHub_ShutdownClosesEverything(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, zap.NewNop())

	var sessions []*session.Session
	for i := 0; i < 3; i++ {
		_, s, err := h.Create(ctx, newBoard())
		require.NoError(t, err)
		sessions = append(sessions, s)
	}

	h.Shutdown()
	for _, s := range sessions {
		select {
		case <-s.Done():
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("session still running after hub shutdown")
		}
	}

	_, _, err := h.Create(ctx, newBoard())
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := GenerateCode()
		require.NoError(t, err)
		require.Regexp(t, `^[A-Z0-9]{6}$`, c)
		seen[c] = true
	}
	assert.Greater(t, len(seen), 1)
}
