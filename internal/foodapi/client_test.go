package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/foodmenu/internal/model"
)

func TestListDecodesInServerOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/foods" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Food{
			{ID: 2, Name: "Veggie", Available: true},
			{ID: 1, Name: "Ao molho", Available: false},
		})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL + "/"})
	foods, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(foods) != 2 || foods[0].ID != 2 || foods[1].ID != 1 {
		t.Errorf("foods = %+v, want ids [2 1]", foods)
	}
}

func TestCreateSendsAvailableTrue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/foods" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["available"] != true {
			t.Errorf("available = %v, want true", body["available"])
		}
		if body["name"] != "Pizza" {
			t.Errorf("name = %v, want Pizza", body["name"])
		}
		if _, ok := body["id"]; ok {
			t.Error("create body should not carry an id")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Food{ID: 7, Name: "Pizza", Price: "19.90", Available: true})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	got, err := c.Create(context.Background(), model.FoodDraft{Name: "Pizza", Price: "19.90"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != 7 || !got.Available {
		t.Errorf("created = %+v, want id 7 available", got)
	}
}

func TestReplaceUsesPutWithFullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/foods/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var f model.Food
		json.NewDecoder(r.Body).Decode(&f)
		if f.ID != 3 || f.Name != "Soup" || f.Available {
			t.Errorf("body = %+v", f)
		}
		json.NewEncoder(w).Encode(f)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	got, err := c.Replace(context.Background(), model.Food{ID: 3, Name: "Soup"})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got.ID != 3 || got.Name != "Soup" {
		t.Errorf("replaced = %+v", got)
	}
}

func TestReplaceEmptyBodyFallsBackToSentItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	sent := model.Food{ID: 4, Name: "Salad", Available: true}
	got, err := c.Replace(context.Background(), sent)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got != sent {
		t.Errorf("replaced = %+v, want %+v", got, sent)
	}
}

func TestDeleteIgnoresBody(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != "/foods/9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	if err := c.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !called {
		t.Error("server was not called")
	}
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	err := c.Delete(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Method != http.MethodDelete || se.Path != "foods/1" {
		t.Errorf("status error = %+v", se)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should be true for 404")
	}
}

func TestTransportError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}
