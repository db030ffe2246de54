package board

import (
	"errors"
	"slices"
	"strings"

	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	pubtypes "github.com/DoyleJ11/pokedraft-backend/pkg/types"
)

var ErrInvalidPoints = errors.New("column points must be non-negative")
var ErrMissingPoints = errors.New("column points missing")
var ErrUnknownGroup = errors.New("unknown group")
var ErrInvalidIndex = errors.New("invalid selection index")
var ErrNoSession = errors.New("no edit session open")
var ErrEmptyName = errors.New("pokemon name is empty")
var ErrUnknownPokemon = errors.New("pokemon not in catalog")

type GroupKind string

const (
	GroupBanned     GroupKind = "banned"
	GroupTeraBanned GroupKind = "tera_banned"
	GroupColumn     GroupKind = "column"
)

// Group names one of the two special groups or a column by position.
// Column is only meaningful when Kind is GroupColumn.
type Group struct {
	Kind   GroupKind `json:"kind"`
	Column int       `json:"column,omitempty"`
}

func Banned() Group        { return Group{Kind: GroupBanned} }
func TeraBanned() Group    { return Group{Kind: GroupTeraBanned} }
func InColumn(i int) Group { return Group{Kind: GroupColumn, Column: i} }

// Same compares groups, ignoring Column for the special groups.
func (g Group) Same(o Group) bool {
	if g.Kind != o.Kind {
		return false
	}
	return g.Kind != GroupColumn || g.Column == o.Column
}

type Selection struct {
	Name            string
	Sprite          string
	BannedAbilities []string
	BannedMoves     []string
	Notes           string
}

type Column struct {
	Points  int
	Entries []Selection
}

// Resolver is the read-only catalog the board checks names against.
type Resolver interface {
	Resolve(name string) (catalog.Entry, bool)
}

// Board holds one draft board being edited plus its single edit session.
// It is not safe for concurrent use; session.Session serializes access.
type Board struct {
	banned     []Selection
	teraBanned []Selection
	columns    []Column
	edit       edit
	resolver   Resolver
}

func New(r Resolver) *Board {
	return &Board{
		banned:     []Selection{},
		teraBanned: []Selection{},
		columns:    []Column{},
		resolver:   r,
	}
}

func (b *Board) AddColumn(points int) error {
	if points < 0 {
		return ErrInvalidPoints
	}
	b.columns = append(b.columns, Column{Points: points, Entries: []Selection{}})
	return nil
}

// RemoveColumn drops column i and everything in it. Stale indices are ignored.
func (b *Board) RemoveColumn(i int) bool {
	if i < 0 || i >= len(b.columns) {
		return false
	}
	b.columns = slices.Delete(b.columns, i, i+1)

	if b.edit.mode != ModeIdle && b.edit.target.Kind == GroupColumn {
		switch {
		case b.edit.target.Column == i:
			b.edit = edit{}
		case b.edit.target.Column > i:
			b.edit.target.Column--
		}
	}
	return true
}

// DirectAdd appends name to g with no banned abilities, moves or notes.
func (b *Board) DirectAdd(g Group, name string) error {
	list, ok := b.entries(g)
	if !ok {
		return ErrUnknownGroup
	}
	sel, err := b.selection(name, nil, nil, "")
	if err != nil {
		return err
	}
	*list = append(*list, sel)
	return nil
}

// RemoveSelection drops entry i from g. Stale indices are ignored.
func (b *Board) RemoveSelection(g Group, i int) bool {
	list, ok := b.entries(g)
	if !ok || i < 0 || i >= len(*list) {
		return false
	}
	*list = slices.Delete(*list, i, i+1)

	if b.edit.mode == ModeEditing && b.edit.target.Same(g) {
		switch {
		case b.edit.index == i:
			b.edit = edit{}
		case b.edit.index > i:
			b.edit.index--
		}
	}
	return true
}

func (b *Board) Columns() []Column {
	out := make([]Column, len(b.columns))
	for i, c := range b.columns {
		out[i] = Column{Points: c.Points, Entries: cloneSelections(c.Entries)}
	}
	return out
}

// Entries returns a copy of the selections in g.
func (b *Board) Entries(g Group) ([]Selection, bool) {
	list, ok := b.entries(g)
	if !ok {
		return nil, false
	}
	return cloneSelections(*list), true
}

// Snapshot renders the board in its persisted shape.
func (b *Board) Snapshot() pubtypes.DraftBoard {
	out := pubtypes.EmptyDraftBoard()
	out.BannedPokemon = toPokemon(b.banned)
	out.TeraBannedPokemon = toPokemon(b.teraBanned)
	for _, c := range b.columns {
		out.Columns = append(out.Columns, pubtypes.Column{Points: c.Points, Pokemon: toPokemon(c.Entries)})
	}
	return out
}

func (b *Board) entries(g Group) (*[]Selection, bool) {
	switch g.Kind {
	case GroupBanned:
		return &b.banned, true
	case GroupTeraBanned:
		return &b.teraBanned, true
	case GroupColumn:
		if g.Column < 0 || g.Column >= len(b.columns) {
			return nil, false
		}
		return &b.columns[g.Column].Entries, true
	}
	return nil, false
}

func (b *Board) selection(name string, abilities, moves []string, notes string) (Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Selection{}, ErrEmptyName
	}
	entry, ok := b.resolver.Resolve(name)
	if !ok {
		return Selection{}, ErrUnknownPokemon
	}
	return Selection{
		Name:            entry.Name,
		Sprite:          entry.Sprite,
		BannedAbilities: cloneStrings(abilities),
		BannedMoves:     cloneStrings(moves),
		Notes:           notes,
	}, nil
}

func toPokemon(sels []Selection) []pubtypes.Pokemon {
	out := make([]pubtypes.Pokemon, 0, len(sels))
	for _, s := range sels {
		out = append(out, pubtypes.Pokemon{
			Name:            s.Name,
			Sprite:          s.Sprite,
			BannedAbilities: cloneStrings(s.BannedAbilities),
			BannedMoves:     cloneStrings(s.BannedMoves),
			Notes:           s.Notes,
		})
	}
	return out
}

func cloneSelections(sels []Selection) []Selection {
	out := make([]Selection, len(sels))
	for i, s := range sels {
		s.BannedAbilities = cloneStrings(s.BannedAbilities)
		s.BannedMoves = cloneStrings(s.BannedMoves)
		out[i] = s
	}
	return out
}

// cloneStrings never returns nil so empty lists encode as [].
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
