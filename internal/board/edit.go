package board

import (
	"slices"
	"strings"
)

type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeAdding  Mode = "adding"
	ModeEditing Mode = "editing"
)

// edit is the staged add/edit session. The zero value is Idle.
type edit struct {
	mode      Mode
	target    Group
	index     int
	name      string
	abilities []string
	moves     []string
	notes     string
}

// SessionView is a read-only copy of the edit session for rendering the add/edit modal.
type SessionView struct {
	Mode            Mode     `json:"mode"`
	Group           *Group   `json:"group,omitempty"`
	Index           *int     `json:"index,omitempty"`
	Name            string   `json:"name"`
	BannedAbilities []string `json:"banned_abilities"`
	BannedMoves     []string `json:"banned_moves"`
	Notes           string   `json:"notes"`
}

func (b *Board) Session() SessionView {
	e := b.edit
	v := SessionView{
		Mode:            e.mode,
		Name:            e.name,
		BannedAbilities: cloneStrings(e.abilities),
		BannedMoves:     cloneStrings(e.moves),
		Notes:           e.notes,
	}
	if v.Mode == "" {
		v.Mode = ModeIdle
		return v
	}
	g := e.target
	v.Group = &g
	if e.mode == ModeEditing {
		i := e.index
		v.Index = &i
	}
	return v
}

// BeginAdd opens an empty session targeting g, discarding any open session.
func (b *Board) BeginAdd(g Group) error {
	if _, ok := b.entries(g); !ok {
		return ErrUnknownGroup
	}
	b.edit = edit{mode: ModeAdding, target: g}
	return nil
}

// BeginEdit loads entry i of g into a new session, discarding any open session.
func (b *Board) BeginEdit(g Group, i int) error {
	list, ok := b.entries(g)
	if !ok {
		return ErrUnknownGroup
	}
	if i < 0 || i >= len(*list) {
		return ErrInvalidIndex
	}
	sel := (*list)[i]
	b.edit = edit{
		mode:      ModeEditing,
		target:    g,
		index:     i,
		name:      sel.Name,
		abilities: cloneStrings(sel.BannedAbilities),
		moves:     cloneStrings(sel.BannedMoves),
		notes:     sel.Notes,
	}
	return nil
}

func (b *Board) SetName(name string) error {
	if !b.active() {
		return ErrNoSession
	}
	b.edit.name = name
	return nil
}

func (b *Board) SetNotes(notes string) error {
	if !b.active() {
		return ErrNoSession
	}
	b.edit.notes = notes
	return nil
}

// ToggleBannedAbility adds ability to the staged set, or removes it if present.
func (b *Board) ToggleBannedAbility(ability string) error {
	if !b.active() {
		return ErrNoSession
	}
	b.edit.abilities = toggle(b.edit.abilities, ability)
	return nil
}

func (b *Board) ToggleBannedMove(move string) error {
	if !b.active() {
		return ErrNoSession
	}
	b.edit.moves = toggle(b.edit.moves, move)
	return nil
}

// Commit writes the staged selection to the board and closes the session.
// On error the session stays open and the board is unchanged.
func (b *Board) Commit() error {
	if !b.active() {
		return ErrNoSession
	}
	e := b.edit

	list, ok := b.entries(e.target)
	if !ok {
		return ErrUnknownGroup
	}
	sel, err := b.selection(e.name, e.abilities, e.moves, e.notes)
	if err != nil {
		return err
	}

	switch e.mode {
	case ModeAdding:
		*list = append(*list, sel)
	case ModeEditing:
		if e.index < 0 || e.index >= len(*list) {
			return ErrInvalidIndex
		}
		(*list)[e.index] = sel
	}
	b.edit = edit{}
	return nil
}

// Cancel discards the staged fields. Safe from any state.
func (b *Board) Cancel() {
	b.edit = edit{}
}

func (b *Board) active() bool {
	return b.edit.mode == ModeAdding || b.edit.mode == ModeEditing
}

func toggle(set []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return set
	}
	out := cloneStrings(set)
	if i := slices.Index(out, v); i >= 0 {
		return slices.Delete(out, i, i+1)
	}
	return append(out, v)
}
