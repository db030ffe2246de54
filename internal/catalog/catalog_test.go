package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testListed() []Listed {
	return []Listed{
		{Name: "bulbasaur", URL: "https://pokeapi.co/api/v2/pokemon/1/"},
		{Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/25/"},
		{Name: "raichu", URL: "https://pokeapi.co/api/v2/pokemon/26/"},
		{Name: "pikachu-rock-star", URL: "https://pokeapi.co/api/v2/pokemon/10080/"},
		{Name: "mr-mime", URL: "https://pokeapi.co/api/v2/pokemon/122/"},
	}
}

func TestDexNumberOf(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want int
		ok   bool
	}{
		{name: "trailing slash", url: "https://pokeapi.co/api/v2/pokemon/25/", want: 25, ok: true},
		{name: "no trailing slash", url: "https://pokeapi.co/api/v2/pokemon/10080", want: 10080, ok: true},
		{name: "not numeric", url: "https://pokeapi.co/api/v2/pokemon/pikachu/", ok: false},
		{name: "empty", url: "", ok: false},
		{name: "zero", url: "https://pokeapi.co/api/v2/pokemon/0/", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DexNumberOf(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNew_DerivesSpritesAndSkipsDuplicates(t *testing.T) {
	listed := append(testListed(), Listed{Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/999/"})
	c := New(listed, "/sprites/")

	require.Equal(t, 5, c.Len())
	e, ok := c.Resolve("pikachu")
	require.True(t, ok)
	assert.Equal(t, 25, e.DexNumber)
	assert.Equal(t, "/sprites/25.png", e.Sprite)
}

func TestNew_DefaultSpriteBase(t *testing.T) {
	c := New(testListed(), "")
	e, ok := c.Resolve("bulbasaur")
	require.True(t, ok)
	assert.Equal(t, DefaultSpriteBase+"/1.png", e.Sprite)
}

func TestResolve_IsExact(t *testing.T) {
	c := New(testListed(), "")
	_, ok := c.Resolve("Pikachu")
	assert.False(t, ok)
	_, ok = c.Resolve("pika")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c := New(testListed(), "")

	got := c.Search("PIKA", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "pikachu", got[0].Name)
	assert.Equal(t, "pikachu-rock-star", got[1].Name)
	assert.Equal(t, "Pikachu Rock Star", got[1].DisplayName)

	assert.Len(t, c.Search("chu", 1), 1)
	assert.Empty(t, c.Search("   ", 10))
	assert.Empty(t, c.Search("missingno", 10))
}

func TestSearch_DefaultLimit(t *testing.T) {
	var listed []Listed
	for i := 1; i <= 30; i++ {
		listed = append(listed, Listed{Name: fmt.Sprintf("mon-%d", i)})
	}
	c := New(listed, "")
	assert.Len(t, c.Search("mon", 0), DefaultSearchLimit)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Mr Mime", DisplayName("mr-mime"))
	assert.Equal(t, "Pikachu", DisplayName("pikachu"))
}

func TestCheckBans(t *testing.T) {
	d := &Detail{
		Name:      "pikachu",
		Abilities: []string{"static", "lightning-rod"},
		Moves:     []string{"thunderbolt", "quick-attack"},
	}

	require.NoError(t, CheckBans(d, []string{"static"}, []string{"thunderbolt"}))
	require.NoError(t, CheckBans(d, nil, nil))
	assert.ErrorIs(t, CheckBans(d, []string{"levitate"}, nil), ErrNotInDetail)
	assert.ErrorIs(t, CheckBans(d, nil, []string{"surf"}), ErrNotInDetail)
}
