package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
)

// TestLoginAndLendingFlow walks the whole surface the way a browser would:
// log in through the (faked) SAML wrapper, receive the session cookie, add
// stock as an admin, borrow and return an item, then log out.
func TestLoginAndLendingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.saml.user = testAdmin

	srv := httptest.NewServer(env.mux)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	// Anonymous API access is rejected.
	resp, err := client.Get(srv.URL + "/api/clothing")
	if err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", resp.StatusCode)
	}

	// Login lands back on the SPA with a session cookie in the jar.
	resp, err = client.Get(srv.URL + "/auth/login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200 after redirect, got %d", resp.StatusCode)
	}

	// Add stock.
	body, _ := json.Marshal(map[string]any{"clothing": "Hi-vis vest", "size": "L", "count": 2})
	resp, err = client.Post(srv.URL+"/api/clothing", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("add clothing: %v", err)
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add clothing: expected 201, got %d", resp.StatusCode)
	}

	// Borrow one unit.
	body, _ = json.Marshal(map[string]any{"clothingId": item.ID})
	resp, err = client.Post(srv.URL+"/api/lendings", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("issue lending: %v", err)
	}
	var lending struct {
		ID       string `json:"id"`
		Clothing string `json:"clothing"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lending); err != nil {
		t.Fatalf("decode lending: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("issue lending: expected 201, got %d", resp.StatusCode)
	}
	if lending.Clothing != "Hi-vis vest" {
		t.Fatalf("expected denormalized clothing name, got %q", lending.Clothing)
	}

	// Stock reflects the open lending.
	resp, err = client.Get(srv.URL + "/api/clothing/" + item.ID)
	if err != nil {
		t.Fatalf("get clothing: %v", err)
	}
	var stock struct {
		Count int `json:"count"`
		Lent  int `json:"lent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stock); err != nil {
		t.Fatalf("decode clothing: %v", err)
	}
	resp.Body.Close()
	if stock.Count != 1 || stock.Lent != 1 {
		t.Fatalf("expected count=1 lent=1, got count=%d lent=%d", stock.Count, stock.Lent)
	}

	// Return it.
	resp, err = client.Post(srv.URL+"/api/lendings/"+lending.ID+"/return", "application/json", nil)
	if err != nil {
		t.Fatalf("return lending: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("return lending: expected 200, got %d", resp.StatusCode)
	}

	// Logout invalidates the session for subsequent API calls.
	resp, err = client.Get(srv.URL + "/auth/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/api/clothing")
	if err != nil {
		t.Fatalf("list after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", resp.StatusCode)
	}
}

// TestLogin_SAMLSessionWithoutIdentity exercises the case where the SAML
// middleware admits the request but no user can be derived from it.
func TestLogin_SAMLSessionWithoutIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.saml.user = nil

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			t.Fatal("no session cookie must be issued")
		}
	}
}
