package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"phoneauth/internal/models"
	"phoneauth/internal/service"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRootAndHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := get(t, r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var m map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["message"] != welcomeMessage {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = get(t, r, "/health")
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if w.Code != http.StatusOK || m["status"] != "ok" {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestItems_ListWithSeededCatalog(t *testing.T) {
	r := newTestRouter(&service.Service{Catalog: service.NewCatalogService(service.DefaultItems())})

	w := get(t, r, "/items")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	want := `[{"id":1,"name":"First Item","description":"This is the first item"},{"id":2,"name":"Second Item","description":"This is the second item"}]`
	if w.Body.String() != want {
		t.Fatalf("body:\n got %s\nwant %s", w.Body.String(), want)
	}
}

func TestItems_NullDescription(t *testing.T) {
	cat := &mockCatalog{items: []models.Item{{ID: 3, Name: "Bare"}}}
	r := newTestRouter(&service.Service{Catalog: cat})

	w := get(t, r, "/items")
	if want := `[{"id":3,"name":"Bare","description":null}]`; w.Body.String() != want {
		t.Fatalf("got %s, want %s", w.Body.String(), want)
	}
}

func TestItems_Get(t *testing.T) {
	r := newTestRouter(&service.Service{Catalog: service.NewCatalogService(service.DefaultItems())})

	w := get(t, r, "/items/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if want := `{"id":1,"name":"First Item","description":"This is the first item"}`; w.Body.String() != want {
		t.Fatalf("got %s, want %s", w.Body.String(), want)
	}

	w = get(t, r, "/items/42")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := decodeDetail(t, w); got != msgItemNotFound {
		t.Fatalf("detail %q", got)
	}
}

func TestItems_GetNonIntegerID(t *testing.T) {
	cat := &mockCatalog{}
	r := newTestRouter(&service.Service{Catalog: cat})

	w := get(t, r, "/items/abc")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if cat.lastID != 0 {
		t.Fatalf("catalog must not be queried")
	}
}
