package types

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/session"
	pubtypes "github.com/DoyleJ11/pokedraft-backend/pkg/types"
)

var ErrUnknownType = errors.New("unknown type")
var ErrMissingGroup = errors.New("missing group")

type ClientMessage struct {
	Type   string       `json:"type"`
	Points *int         `json:"points,omitempty"`
	Column int          `json:"column,omitempty"`
	Group  *board.Group `json:"group,omitempty"`
	Index  int          `json:"index,omitempty"`
	Name   string       `json:"name,omitempty"`
	Notes  string       `json:"notes,omitempty"`
}

type ServerMessage struct {
	Type    string               `json:"type"` // "StateSnapshot" | "Error"
	Version int                  `json:"version"`
	Board   *pubtypes.DraftBoard `json:"board,omitempty"`
	Session *board.SessionView   `json:"session,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func SnapshotMessage(s session.Snapshot) ServerMessage {
	return ServerMessage{Type: "StateSnapshot", Version: s.Version, Board: &s.Board, Session: &s.Session}
}

func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: "Error", Error: err.Error()}
}

// Command translates a client message into a board command.
func (m ClientMessage) Command() (board.Command, error) {
	t := board.CommandType(m.Type)
	switch t {
	case board.CmdAddColumn:
		return board.Command{Type: t, Points: m.Points}, nil
	case board.CmdRemoveColumn:
		return board.Command{Type: t, Index: m.Column}, nil
	case board.CmdSetName, board.CmdToggleAbility, board.CmdToggleMove:
		return board.Command{Type: t, Value: m.Name}, nil
	case board.CmdSetNotes:
		return board.Command{Type: t, Value: m.Notes}, nil
	case board.CmdCommit, board.CmdCancel:
		return board.Command{Type: t}, nil
	case board.CmdBeginAdd, board.CmdBeginEdit, board.CmdDirectAdd, board.CmdRemoveSelection:
		if m.Group == nil {
			return board.Command{}, fmt.Errorf("%s: %w", m.Type, ErrMissingGroup)
		}
		return board.Command{Type: t, Group: *m.Group, Index: m.Index, Value: m.Name}, nil
	default:
		return board.Command{}, fmt.Errorf("%q: %w", m.Type, ErrUnknownType)
	}
}
