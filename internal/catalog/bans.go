package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var ErrNotInDetail = errors.New("not available to this pokemon")

// CheckBans reports the first ability or move that is not in the Pokémon's own lists.
func CheckBans(d *Detail, abilities, moves []string) error {
	for _, a := range abilities {
		if !slices.Contains(d.Abilities, a) {
			return fmt.Errorf("ability %q: %w", a, ErrNotInDetail)
		}
	}
	for _, m := range moves {
		if !slices.Contains(d.Moves, m) {
			return fmt.Errorf("move %q: %w", m, ErrNotInDetail)
		}
	}
	return nil
}

// DetailSource is anything that can describe a Pokémon; *Client is the real one.
type DetailSource interface {
	Detail(ctx context.Context, name string) (*Detail, error)
}
