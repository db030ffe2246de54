package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pubtypes "github.com/DoyleJ11/pokedraft-backend/pkg/types"
)

func TestDraftTemplate_Validate(t *testing.T) {
	cases := []struct {
		name      string
		in        DraftTemplate
		wantErr   bool
		wantName  string
		wantPts   int
		wantCount int
	}{
		{name: "defaults applied", in: DraftTemplate{Name: "  Season 3 "}, wantName: "Season 3", wantPts: 115, wantCount: 12},
		{name: "explicit limits kept", in: DraftTemplate{Name: "Cup", PointLimit: 90, PokemonLimit: 10}, wantName: "Cup", wantPts: 90, wantCount: 10},
		{name: "name too short", in: DraftTemplate{Name: "ab"}, wantErr: true},
		{name: "name too long", in: DraftTemplate{Name: strings.Repeat("x", 51)}, wantErr: true},
		{name: "negative point limit", in: DraftTemplate{Name: "Cup", PointLimit: -1}, wantErr: true},
		{name: "negative pokemon limit", in: DraftTemplate{Name: "Cup", PokemonLimit: -3}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.in
			err := d.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, d.Name)
			assert.Equal(t, tc.wantPts, d.PointLimit)
			assert.Equal(t, tc.wantCount, d.PokemonLimit)
		})
	}
}

func TestMemory_CreateGetList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}

	board := pubtypes.EmptyDraftBoard()
	board.Columns = append(board.Columns, pubtypes.Column{Points: 19, Pokemon: []pubtypes.Pokemon{{Name: "garchomp"}}})

	first := &DraftTemplate{Name: "Spring League", Board: board}
	require.NoError(t, m.Create(ctx, first))
	require.NotEmpty(t, first.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second := &DraftTemplate{Name: "Summer League"}
	require.NoError(t, m.Create(ctx, second))

	got, err := m.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "garchomp", got.Board.Columns[0].Pokemon[0].Name)
	assert.Equal(t, DefaultPointLimit, got.PointLimit)

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Summer League", list[0].Name)
	assert.Equal(t, "Spring League", list[1].Name)
}

func TestMemory_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Create(ctx, &DraftTemplate{Name: "Spring League"}))
	assert.ErrorIs(t, m.Create(ctx, &DraftTemplate{Name: " Spring League "}), ErrDuplicateName)
	assert.ErrorIs(t, m.Create(ctx, &DraftTemplate{Name: "x"}), ErrValidation)

	_, err := m.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, m.Close(ctx))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(ctx, Options{Driver: "cassandra"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
