package storefront

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

	"souq/internal/realtime"
)

// REST talks to the hosted storefront backend over HTTPS with JSON bodies.
// It does no caching and no retrying; both live in the layers above.
type REST struct {
	baseURL string
	token   string
	client  *http.Client
}

// RESTOption configures a REST backend
type RESTOption func(*REST)

// WithToken attaches a bearer token to every request
func WithToken(token string) RESTOption {
	return func(r *REST) {
		r.token = token
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) RESTOption {
	return func(r *REST) {
		r.client = client
	}
}

// NewREST creates a backend client for baseURL
func NewREST(baseURL string, opts ...RESTOption) *REST {
	r := &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *REST) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.getJSON(ctx, "/v1/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *REST) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := r.getJSON(ctx, "/v1/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *REST) ListCart(ctx context.Context, userID string) ([]CartItem, error) {
	var items []CartItem
	if err := r.getJSON(ctx, "/v1/users/"+url.PathEscape(userID)+"/cart", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *REST) ListWishlist(ctx context.Context, userID string) ([]WishlistEntry, error) {
	var entries []WishlistEntry
	if err := r.getJSON(ctx, "/v1/users/"+url.PathEscape(userID)+"/wishlist", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *REST) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := r.getJSON(ctx, "/v1/services", &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *REST) SellerStats(ctx context.Context, sellerID string) (*SellerStats, error) {
	var stats SellerStats
	if err := r.getJSON(ctx, "/v1/sellers/"+url.PathEscape(sellerID)+"/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *REST) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return r.send(ctx, http.MethodPost, "/v1/users/"+url.PathEscape(userID)+"/cart", body)
}

func (r *REST) RemoveFromCart(ctx context.Context, userID, productID string) error {
	path := "/v1/users/" + url.PathEscape(userID) + "/cart/" + url.PathEscape(productID)
	return r.send(ctx, http.MethodDelete, path, nil)
}

func (r *REST) SetWishlist(ctx context.Context, userID string, productIDs []string) error {
	body := map[string]any{"product_ids": productIDs}
	return r.send(ctx, http.MethodPut, "/v1/users/"+url.PathEscape(userID)+"/wishlist", body)
}

func (r *REST) Changes(ctx context.Context, since time.Time) ([]realtime.Event, error) {
	path := "/v1/changes?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))

	var events []realtime.Event
	if err := r.getJSON(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *REST) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	r.decorate(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *REST) send(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.decorate(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (r *REST) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, msg)
}

var _ Backend = (*REST)(nil)
