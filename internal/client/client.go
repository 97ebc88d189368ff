// Package client talks to the recipe backend over HTTP. RecipeClient and
// PreferenceClient plug the backend into the swipe engine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

const defaultTimeout = 60 * time.Second

// Client holds the backend address and the caller's token, if any.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for baseURL. A nil httpClient gets a default with a
// 60s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken makes later requests authenticate as the token's user.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	return c.token
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type authResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/login", username, password)
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) error {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, nil, credentials{Username: username, Password: password}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// RecipeClient fetches one generated card per call.
type RecipeClient struct {
	*Client
}

func NewRecipeClient(c *Client) *RecipeClient {
	return &RecipeClient{Client: c}
}

// Fetch requests a card matching filters. A card without an id is
// rejected.
func (r *RecipeClient) Fetch(ctx context.Context, filters types.Filters) (types.RecipeCard, error) {
	var card types.RecipeCard
	if err := r.do(ctx, http.MethodGet, "/api/recipe", filters.Query(), nil, &card); err != nil {
		return types.RecipeCard{}, err
	}
	if card.ID == "" {
		return types.RecipeCard{}, fmt.Errorf("backend returned a recipe without an id")
	}
	return card, nil
}

// PreferenceClient stores verdicts on the backend for the logged-in user.
type PreferenceClient struct {
	*Client
}

func NewPreferenceClient(c *Client) *PreferenceClient {
	return &PreferenceClient{Client: c}
}

type swipeRequest struct {
	RecipeID  string            `json:"recipeId"`
	Direction string            `json:"direction"`
	Recipe    *types.RecipeCard `json:"recipe,omitempty"`
}

// Add records a like and saves the full card.
func (p *PreferenceClient) Add(ctx context.Context, card types.RecipeCard) error {
	return p.do(ctx, http.MethodPost, "/api/swipe", nil, swipeRequest{RecipeID: card.ID, Direction: "like", Recipe: &card}, nil)
}

// AddDislike records a dislike.
func (p *PreferenceClient) AddDislike(ctx context.Context, card types.RecipeCard) error {
	return p.do(ctx, http.MethodPost, "/api/swipe", nil, swipeRequest{RecipeID: card.ID, Direction: "dislike"}, nil)
}

// All returns the saved cards.
func (p *PreferenceClient) All(ctx context.Context) ([]types.RecipeCard, error) {
	var resp struct {
		Recipes []types.RecipeCard `json:"recipes"`
	}
	if err := p.do(ctx, http.MethodGet, "/api/saved", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

type preferencesBody struct {
	Preferences types.Filters `json:"preferences"`
}

// Preferences returns the filters stored for the user.
func (p *PreferenceClient) Preferences(ctx context.Context) (types.Filters, error) {
	var resp preferencesBody
	if err := p.do(ctx, http.MethodGet, "/api/preferences", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Preferences == nil {
		return types.Filters{}, nil
	}
	return resp.Preferences, nil
}

// SavePreferences stores filters as the user's current choice. Known keys
// missing from filters are cleared on the backend, so the stored set ends
// up equal to filters.
func (p *PreferenceClient) SavePreferences(ctx context.Context, filters types.Filters) (types.Filters, error) {
	update := filters.Clone()
	for _, key := range types.FilterKeys {
		if _, ok := update[key]; !ok {
			update[key] = ""
		}
	}
	var resp preferencesBody
	if err := p.do(ctx, http.MethodPost, "/api/preferences", nil, preferencesBody{Preferences: update}, &resp); err != nil {
		return nil, err
	}
	return resp.Preferences, nil
}
