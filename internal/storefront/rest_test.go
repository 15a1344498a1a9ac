package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRESTListProducts(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/products" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Product{{ID: "p1", Name: "Ceramic mug"}})
	}))
	defer server.Close()

	backend := NewREST(server.URL, WithToken("tok-123"))
	products, err := backend.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Errorf("Unexpected products: %+v", products)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}
}

func TestRESTStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "product missing", http.StatusNotFound)
	}))
	defer server.Close()

	backend := NewREST(server.URL)
	_, err := backend.GetProduct(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestRESTAddToCart(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/users/u1/cart" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	backend := NewREST(server.URL)
	if err := backend.AddToCart(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("AddToCart returned error: %v", err)
	}
	if gotBody["product_id"] != "p1" || gotBody["quantity"] != float64(2) {
		t.Errorf("Unexpected body: %v", gotBody)
	}
}

func TestRESTChanges(t *testing.T) {
	since := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("since")
		if !strings.HasPrefix(got, "2026-08-20T12:00:00") {
			t.Errorf("Unexpected since param %q", got)
		}
		w.Write([]byte(`[{"id":"e1","topic":"products","op":"update","at":"2026-08-20T12:01:00Z"}]`))
	}))
	defer server.Close()

	backend := NewREST(server.URL)
	events, err := backend.Changes(context.Background(), since)
	if err != nil {
		t.Fatalf("Changes returned error: %v", err)
	}
	if len(events) != 1 || events[0].Topic != "products" {
		t.Errorf("Unexpected events: %+v", events)
	}
}
