package types

// DraftBoard is the serialized board handed to persistence on submit.
type DraftBoard struct {
	BannedPokemon     []Pokemon `json:"banned_pokemon" bson:"banned_pokemon"`
	TeraBannedPokemon []Pokemon `json:"tera_banned_pokemon" bson:"tera_banned_pokemon"`
	Columns           []Column  `json:"columns" bson:"columns"`
}

type Column struct {
	Points  int       `json:"points" bson:"points"`
	Pokemon []Pokemon `json:"pokemon" bson:"pokemon"`
}

type Pokemon struct {
	Name            string   `json:"name" bson:"name"`
	Sprite          string   `json:"sprite" bson:"sprite"`
	BannedAbilities []string `json:"banned_abilities" bson:"banned_abilities"`
	BannedMoves     []string `json:"banned_moves" bson:"banned_moves"`
	Notes           string   `json:"notes" bson:"notes"`
}

// EmptyDraftBoard returns a board whose slices are non-nil so it encodes as [] rather than null.
func EmptyDraftBoard() DraftBoard {
	return DraftBoard{
		BannedPokemon:     []Pokemon{},
		TeraBannedPokemon: []Pokemon{},
		Columns:           []Column{},
	}
}

// Count returns the number of Pokémon across every group of the board.
func (b DraftBoard) Count() int {
	n := len(b.BannedPokemon) + len(b.TeraBannedPokemon)
	for _, c := range b.Columns {
		n += len(c.Pokemon)
	}
	return n
}
