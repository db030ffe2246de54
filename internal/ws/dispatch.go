package ws

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/session"
	"github.com/DoyleJ11/pokedraft-backend/internal/types"
)

// Dispatch translates m and applies it to s. Ability and move toggles are checked
// against the staged Pokémon's detail data first when details is non-nil.
func Dispatch(ctx context.Context, s *session.Session, clientID string, m types.ClientMessage, details catalog.DetailSource) error {
	cmd, err := m.Command()
	if err != nil {
		return err
	}

	if details != nil && (cmd.Type == board.CmdToggleAbility || cmd.Type == board.CmdToggleMove) {
		if cmd, err = checkToggle(ctx, s, cmd, details); err != nil {
			return err
		}
	}
	return s.Apply(ctx, clientID, cmd)
}

// checkToggle validates cmd against the staged Pokémon and pins that name on the
// command, so the board refuses it if another client renamed the Pokémon meanwhile.
func checkToggle(ctx context.Context, s *session.Session, cmd board.Command, details catalog.DetailSource) (board.Command, error) {
	v, err := s.View(ctx)
	if err != nil {
		return cmd, err
	}
	name := strings.TrimSpace(v.Session.Name)
	if v.Session.Mode == board.ModeIdle || name == "" {
		// Let the board report the missing session or name.
		return cmd, nil
	}

	d, err := details.Detail(ctx, name)
	if errors.Is(err, catalog.ErrNotFound) {
		return cmd, board.ErrUnknownPokemon
	}
	if err != nil {
		// Detail data is advisory; an unreachable provider does not block editing.
		return cmd, nil
	}
	cmd.Expect = v.Session.Name

	// Removing a value that is already banned is always allowed.
	value := strings.TrimSpace(cmd.Value)
	staged := v.Session.BannedAbilities
	if cmd.Type == board.CmdToggleMove {
		staged = v.Session.BannedMoves
	}
	if slices.Contains(staged, value) {
		return cmd, nil
	}

	if cmd.Type == board.CmdToggleAbility {
		return cmd, catalog.CheckBans(d, []string{value}, nil)
	}
	return cmd, catalog.CheckBans(d, nil, []string{value})
}
