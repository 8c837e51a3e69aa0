// Package dirsync keeps the in-memory user snapshot current by periodically
// fetching the external directory API and replacing the snapshot wholesale.
package dirsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// Client fetches user records from the directory API. The API returns either
// a bare JSON array of records or an object with a "results" array
// (Authentik paginates this way).
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a directory client for the given endpoint. token is
// sent as a bearer token when non-empty.
func NewClient(url, token string, httpClient *http.Client) *Client {
	return &Client{
		url:        url,
		token:      token,
		httpClient: httpClient,
	}
}

// directoryRecord is the wire shape of one directory user. Records may carry
// name or first_name/last_name, email or username, and groups as plain
// strings or name-bearing objects.
type directoryRecord struct {
	Name      string           `json:"name"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Username  string           `json:"username"`
	Groups    []directoryGroup `json:"groups"`
}

// directoryGroup accepts either a bare group-name string or an object with
// a name field.
type directoryGroup struct {
	Name string
}

func (g *directoryGroup) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		g.Name = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	g.Name = obj.Name
	return nil
}

// FetchUsers retrieves and maps the full user list from the directory.
func (c *Client) FetchUsers(ctx context.Context) ([]domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("directory API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	users := make([]domain.User, 0, len(records))
	for _, r := range records {
		users = append(users, mapRecord(r))
	}
	return users, nil
}

// decodeRecords accepts both response shapes: a bare array or an object
// wrapping a results array.
func decodeRecords(body []byte) ([]directoryRecord, error) {
	var records []directoryRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Results []directoryRecord `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Results, nil
}

// mapRecord normalizes one wire record into a domain user: name falls back
// to "first last" trimmed, email falls back to the username.
func mapRecord(r directoryRecord) domain.User {
	name := r.Name
	if name == "" {
		name = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}

	email := r.Email
	if email == "" {
		email = r.Username
	}

	groups := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		groups = append(groups, g.Name)
	}

	return domain.User{
		Name:   name,
		Email:  email,
		Groups: groups,
	}
}
