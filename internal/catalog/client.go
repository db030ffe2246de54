package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	ListLimit      = 1302
	requestTimeout = 15 * time.Second
)

var ErrNotFound = errors.New("pokemon not found")

// Detail is the subset of a PokéAPI pokemon resource the board editor needs.
type Detail struct {
	Name      string         `json:"name"`
	Abilities []string       `json:"abilities"`
	Moves     []string       `json:"moves"`
	Stats     map[string]int `json:"stats"`
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter

	mu      sync.Mutex
	details map[string]*Detail
}

// NewClient returns a PokéAPI client allowing rps requests per second (burst 1).
func NewClient(baseURL string, rps float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(limit, 1),
		details:     make(map[string]*Detail),
	}
}

type listResponse struct {
	Results []Listed `json:"results"`
}

// List fetches the full catalog in provider order.
func (c *Client) List(ctx context.Context) ([]Listed, error) {
	var resp listResponse
	u := fmt.Sprintf("%s/pokemon/?limit=%d", c.baseURL, ListLimit)
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}
	return resp.Results, nil
}

// Load fetches the list and builds a Catalog from it.
func (c *Client) Load(ctx context.Context, spriteBase string) (*Catalog, error) {
	listed, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return New(listed, spriteBase), nil
}

type detailResponse struct {
	Name      string `json:"name"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

// Detail fetches abilities, moves and base stats for name. Results are cached.
func (c *Client) Detail(ctx context.Context, name string) (*Detail, error) {
	c.mu.Lock()
	if d, ok := c.details[name]; ok {
		c.mu.Unlock()
		return d, nil
	}
	c.mu.Unlock()

	var resp detailResponse
	u := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(name))
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("pokemon %q: %w", name, err)
	}

	d := &Detail{
		Name:      resp.Name,
		Abilities: make([]string, 0, len(resp.Abilities)),
		Moves:     make([]string, 0, len(resp.Moves)),
		Stats:     make(map[string]int, len(resp.Stats)),
	}
	for _, a := range resp.Abilities {
		d.Abilities = append(d.Abilities, a.Ability.Name)
	}
	for _, m := range resp.Moves {
		d.Moves = append(d.Moves, m.Move.Name)
	}
	for _, s := range resp.Stats {
		d.Stats[s.Stat.Name] = s.BaseStat
	}

	c.mu.Lock()
	c.details[name] = d
	c.mu.Unlock()
	return d, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pokeapi returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
