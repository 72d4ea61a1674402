// Package client moves cart snapshots across the client/server boundary.
// Push and Pull are stateless; failures are returned to the caller, which
// owns the dirty flag and any retry policy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/domain"
)

// Client talks to the cart persistence endpoints with the caller's session
// cookie attached to every request.
type Client struct {
	baseURL      string
	sessionToken string
	http         *http.Client
}

// CookieName matches the session cookie the server issues.
const CookieName = "storefront_session"

func New(baseURL, sessionToken string) *Client {
	return &Client{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

// SetSession swaps the session token after login/logout.
func (c *Client) SetSession(token string) {
	c.sessionToken = token
}

// Push sends the full cart as a replace operation. A non-nil error means the
// server state is unchanged as far as this client knows; the caller should
// keep its dirty flag set.
func (c *Client) Push(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	body, err := json.Marshal(map[string]any{"cart": items})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cart/sync", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push cart: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push cart: status %d", resp.StatusCode)
	}
	return nil
}

// Pull fetches the server's stored cart. On error the returned slice is
// empty and must not be treated as authoritative.
func (c *Client) Pull(ctx context.Context) ([]domain.CartItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart", nil)
	if err != nil {
		return []domain.CartItem{}, err
	}
	c.attachSession(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return []domain.CartItem{}, fmt.Errorf("pull cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []domain.CartItem{}, fmt.Errorf("pull cart: status %d", resp.StatusCode)
	}

	var out struct {
		Cart []domain.CartItem `json:"cart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return []domain.CartItem{}, fmt.Errorf("pull cart: %w", err)
	}
	if out.Cart == nil {
		out.Cart = []domain.CartItem{}
	}
	return out.Cart, nil
}

func (c *Client) attachSession(req *http.Request) {
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: c.sessionToken})
	}
}

// Merge reconciles a local cart with the server's copy. The result starts
// from remote; ids present in both sum their quantities, local-only items are
// appended. The final per-id quantities do not depend on argument order of
// items within either input.
func Merge(local, remote []domain.CartItem) []domain.CartItem {
	merged := append([]domain.CartItem(nil), remote...)
	index := make(map[int64]int, len(merged))
	for i, item := range merged {
		index[item.ID] = i
	}
	for _, item := range local {
		if i, ok := index[item.ID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
