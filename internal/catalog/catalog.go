package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultSpriteBase  = "/src/assets/pokemon-sprites/sprites/pokemon"
	DefaultSearchLimit = 10
)

// Listed is one row of the provider's list endpoint.
type Listed struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Entry struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	DexNumber int    `json:"dex_number"`
	Sprite    string `json:"sprite"`
}

type SearchResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	DexNumber   int    `json:"dex_number"`
	Sprite      string `json:"sprite"`
}

// Catalog is immutable after New and safe for concurrent reads.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

func New(listed []Listed, spriteBase string) *Catalog {
	if spriteBase == "" {
		spriteBase = DefaultSpriteBase
	}
	c := &Catalog{
		entries: make([]Entry, 0, len(listed)),
		byName:  make(map[string]int, len(listed)),
	}
	for _, l := range listed {
		if l.Name == "" {
			continue
		}
		if _, dup := c.byName[l.Name]; dup {
			continue
		}
		e := Entry{Name: l.Name, URL: l.URL}
		if dex, ok := DexNumberOf(l.URL); ok {
			e.DexNumber = dex
			e.Sprite = SpriteRef(spriteBase, dex)
		}
		c.byName[l.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

func (c *Catalog) Len() int { return len(c.entries) }

// Resolve looks a name up exactly as the provider spells it.
func (c *Catalog) Resolve(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Search returns entries whose name contains query (case-insensitive), in catalog order.
func (c *Catalog) Search(query string, limit int) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	out := []SearchResult{}
	for _, e := range c.entries {
		if !strings.Contains(strings.ToLower(e.Name), q) {
			continue
		}
		out = append(out, SearchResult{
			Name:        e.Name,
			DisplayName: DisplayName(e.Name),
			DexNumber:   e.DexNumber,
			Sprite:      e.Sprite,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// DexNumberOf pulls the numeric id out of a resource URL like
// https://pokeapi.co/api/v2/pokemon/25/.
func DexNumberOf(url string) (int, bool) {
	trimmed := strings.TrimRight(url, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[i+1:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func SpriteRef(base string, dex int) string {
	return fmt.Sprintf("%s/%d.png", strings.TrimRight(base, "/"), dex)
}

// DisplayName turns "mr-mime" into "Mr Mime".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}
