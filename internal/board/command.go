package board

import "errors"

var ErrUnsupportedCommand = errors.New("unsupported command")

// ErrStaleIndex tells transports a removal matched nothing. The board is unchanged.
var ErrStaleIndex = errors.New("index no longer exists")

// ErrNameChanged rejects a toggle whose Expect no longer matches the staged name.
var ErrNameChanged = errors.New("staged pokemon changed")

type CommandType string

const (
	CmdAddColumn       CommandType = "AddColumn"
	CmdRemoveColumn    CommandType = "RemoveColumn"
	CmdBeginAdd        CommandType = "BeginAdd"
	CmdBeginEdit       CommandType = "BeginEdit"
	CmdSetName         CommandType = "SetName"
	CmdSetNotes        CommandType = "SetNotes"
	CmdToggleAbility   CommandType = "ToggleAbility"
	CmdToggleMove      CommandType = "ToggleMove"
	CmdCommit          CommandType = "Commit"
	CmdCancel          CommandType = "Cancel"
	CmdDirectAdd       CommandType = "DirectAdd"
	CmdRemoveSelection CommandType = "RemoveSelection"
)

/*
	AddColumn       -> Points
	RemoveColumn    -> Index (column)
	BeginAdd        -> Group
	BeginEdit       -> Group, Index
	SetName         -> Value
	SetNotes        -> Value
	ToggleAbility   -> Value, Expect (optional)
	ToggleMove      -> Value, Expect (optional)
	DirectAdd       -> Group, Value
	RemoveSelection -> Group, Index
*/

type Command struct {
	Type   CommandType
	Group  Group
	Index  int
	Points *int
	Value  string
	Expect string // staged name the toggle was validated against
}

// Apply runs one command against the board. A non-nil error means nothing changed.
func (b *Board) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdAddColumn:
		if cmd.Points == nil {
			return ErrMissingPoints
		}
		return b.AddColumn(*cmd.Points)

	case CmdRemoveColumn:
		if !b.RemoveColumn(cmd.Index) {
			return ErrStaleIndex
		}
		return nil

	case CmdBeginAdd:
		return b.BeginAdd(cmd.Group)

	case CmdBeginEdit:
		return b.BeginEdit(cmd.Group, cmd.Index)

	case CmdSetName:
		return b.SetName(cmd.Value)

	case CmdSetNotes:
		return b.SetNotes(cmd.Value)

	case CmdToggleAbility:
		if err := b.expect(cmd.Expect); err != nil {
			return err
		}
		return b.ToggleBannedAbility(cmd.Value)

	case CmdToggleMove:
		if err := b.expect(cmd.Expect); err != nil {
			return err
		}
		return b.ToggleBannedMove(cmd.Value)

	case CmdCommit:
		return b.Commit()

	case CmdCancel:
		b.Cancel()
		return nil

	case CmdDirectAdd:
		return b.DirectAdd(cmd.Group, cmd.Value)

	case CmdRemoveSelection:
		if !b.RemoveSelection(cmd.Group, cmd.Index) {
			return ErrStaleIndex
		}
		return nil

	default:
		return ErrUnsupportedCommand
	}
}

func (b *Board) expect(name string) error {
	if name == "" || !b.active() {
		return nil
	}
	if b.edit.name != name {
		return ErrNameChanged
	}
	return nil
}
