package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	pubtypes "github.com/DoyleJ11/pokedraft-backend/pkg/types"
)

var ErrNotFound = errors.New("draft not found")
var ErrDuplicateName = errors.New("draft name already exists")
var ErrValidation = errors.New("invalid draft")
var ErrUnknownDriver = errors.New("unknown database driver")

const (
	DefaultPointLimit   = 115
	DefaultPokemonLimit = 12
	minNameLen          = 3
	maxNameLen          = 50
)

// DraftTemplate is a saved draft board plus the metadata entered on submit.
type DraftTemplate struct {
	ID           string              `json:"id" bson:"_id"`
	Name         string              `json:"name" bson:"name"`
	Description  string              `json:"description,omitempty" bson:"description,omitempty"`
	PointLimit   int                 `json:"point_limit" bson:"point_limit"`
	PokemonLimit int                 `json:"pokemon_limit" bson:"pokemon_limit"`
	Rules        string              `json:"rules" bson:"rules"`
	Board        pubtypes.DraftBoard `json:"draft_board" bson:"draft_board"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

// Validate trims the name, fills default limits and checks bounds.
// A zero limit means "not provided".
func (d *DraftTemplate) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if n := utf8.RuneCountInString(d.Name); n < minNameLen || n > maxNameLen {
		return fmt.Errorf("%w: name must be %d-%d characters", ErrValidation, minNameLen, maxNameLen)
	}

	if d.PointLimit == 0 {
		d.PointLimit = DefaultPointLimit
	}
	if d.PointLimit < 0 {
		return fmt.Errorf("%w: point_limit must be greater than 0", ErrValidation)
	}

	if d.PokemonLimit == 0 {
		d.PokemonLimit = DefaultPokemonLimit
	}
	if d.PokemonLimit < 0 {
		return fmt.Errorf("%w: pokemon_limit must be greater than 0", ErrValidation)
	}
	return nil
}

// prepare validates d and stamps ID and timestamps for a fresh insert.
func prepare(d *DraftTemplate, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

type DraftStore interface {
	Create(ctx context.Context, d *DraftTemplate) error
	Get(ctx context.Context, id string) (*DraftTemplate, error)
	List(ctx context.Context) ([]DraftTemplate, error)
	Close(ctx context.Context) error
}

type Options struct {
	Driver      string
	DatabaseURL string
	MongoURI    string
	MongoDB     string
}

// Open picks a DraftStore implementation by driver name.
func Open(ctx context.Context, o Options) (DraftStore, error) {
	switch o.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		return NewPostgres(o.DatabaseURL)
	case "mongo":
		return NewMongo(ctx, o.MongoURI, o.MongoDB)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, o.Driver)
	}
}
