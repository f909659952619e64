package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-account-verifier/internal/domain"
)

// maxResponseBytes caps how much of a directory response is decoded.
const maxResponseBytes = 1 << 20

// Property is one directory-side attribute with its upstream verification status.
type Property struct {
	Value    string                    `json:"value"`
	Verified domain.VerificationStatus `json:"verified"`
}

// Record is one user entry returned by the lookup directory.
type Record struct {
	FederationID string
	Properties   map[domain.PropertyType]Property
}

// UnmarshalJSON reads federationId and every object-valued key that has the
// {value, verified} shape. Other keys are ignored.
func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Properties = make(map[domain.PropertyType]Property, len(raw))
	for k, v := range raw {
		if k == "federationId" {
			if err := json.Unmarshal(v, &r.FederationID); err != nil {
				return fmt.Errorf("federationId: %w", err)
			}
			continue
		}
		var p Property
		if err := json.Unmarshal(v, &p); err != nil {
			continue
		}
		r.Properties[domain.PropertyType(k)] = p
	}
	return nil
}

// Client queries the lookup directory.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

// Search returns all records the directory matches for term.
func (c *Client) Search(ctx context.Context, term string) ([]Record, error) {
	u := c.baseURL + "/users?search=" + url.QueryEscape(term)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("lookup server returned %d", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return records, nil
}

// Find returns the first record whose federation id equals cloudID, or
// nil when the directory has none.
func (c *Client) Find(ctx context.Context, cloudID string) (*Record, error) {
	records, err := c.Search(ctx, cloudID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].FederationID == cloudID {
			return &records[i], nil
		}
	}
	return nil, nil
}
