package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/constants"
	"github.com/mindmesh/mindmesh-api/internal/models"
)

const (
	notionBaseURL    = "https://api.notion.com/v1"
	notionAPIVersion = "2022-06-28"
)

// NotionProvider imports task-shaped database pages and flips their status
// property to Done on export.
type NotionProvider struct {
	httpClient *http.Client
	baseURL    string
}

func NewNotionProvider(httpClient *http.Client) *NotionProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NotionProvider{httpClient: httpClient, baseURL: notionBaseURL}
}

// SetBaseURL overrides the API endpoint (used for testing)
func (p *NotionProvider) SetBaseURL(u string) {
	p.baseURL = u
}

func (p *NotionProvider) System() models.ExternalSystem {
	return models.SystemNotion
}

// IsTaskShaped reports whether a database schema looks like a task list:
// it must carry both a title-typed property and a status or select property.
// Kept as a standalone classifier so it can be unit-tested against
// representative schemas in isolation from the sync flow.
func IsTaskShaped(properties map[string]string) bool {
	hasTitle := false
	hasStatus := false
	for _, propType := range properties {
		switch propType {
		case "title":
			hasTitle = true
		case "status", "select":
			hasStatus = true
		}
	}
	return hasTitle && hasStatus
}

type notionDatabase struct {
	ID         string                     `json:"id"`
	Properties map[string]json.RawMessage `json:"properties"`
}

type notionSearchResponse struct {
	Results []notionDatabase `json:"results"`
}

type notionPage struct {
	ID         string                     `json:"id"`
	Properties map[string]json.RawMessage `json:"properties"`
}

type notionQueryResponse struct {
	Results []notionPage `json:"results"`
}

// ListItems finds task-shaped databases and returns their first pages.
func (p *NotionProvider) ListItems(ctx context.Context, integration *models.Integration) ([]Item, error) {
	databases, err := p.searchDatabases(ctx, integration.AccessToken)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, db := range databases {
		if !IsTaskShaped(propertyTypes(db.Properties)) {
			continue
		}
		pages, err := p.queryDatabase(ctx, integration.AccessToken, db.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, pages...)
	}
	return items, nil
}

func propertyTypes(raw map[string]json.RawMessage) map[string]string {
	types := make(map[string]string, len(raw))
	for name, msg := range raw {
		var prop struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &prop); err == nil {
			types[name] = prop.Type
		}
	}
	return types
}

func (p *NotionProvider) searchDatabases(ctx context.Context, token string) ([]notionDatabase, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"filter": map[string]string{"property": "object", "value": "database"},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion search returned status %d", resp.StatusCode)
	}

	var search notionSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode notion search response: %w", err)
	}
	return search.Results, nil
}

func (p *NotionProvider) queryDatabase(ctx context.Context, token, databaseID string) ([]Item, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"page_size": constants.NotionImportPageLimit,
	})

	endpoint := fmt.Sprintf("%s/databases/%s/query", p.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion query returned status %d", resp.StatusCode)
	}

	var query notionQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&query); err != nil {
		return nil, fmt.Errorf("failed to decode notion query response: %w", err)
	}

	items := make([]Item, 0, len(query.Results))
	for _, page := range query.Results {
		items = append(items, pageToItem(page))
	}
	return items, nil
}

func pageToItem(page notionPage) Item {
	item := Item{ExternalID: page.ID}
	for _, msg := range page.Properties {
		var prop struct {
			Type  string `json:"type"`
			Title []struct {
				PlainText string `json:"plain_text"`
			} `json:"title"`
			Status *struct {
				Name string `json:"name"`
			} `json:"status"`
			Select *struct {
				Name string `json:"name"`
			} `json:"select"`
			Date *struct {
				Start string `json:"start"`
			} `json:"date"`
		}
		if err := json.Unmarshal(msg, &prop); err != nil {
			continue
		}
		switch prop.Type {
		case "title":
			for _, t := range prop.Title {
				item.Title += t.PlainText
			}
		case "status":
			if prop.Status != nil {
				item.Status = prop.Status.Name
			}
		case "select":
			if item.Status == "" && prop.Select != nil {
				item.Status = prop.Select.Name
			}
		case "date":
			if prop.Date != nil {
				if t, err := time.Parse("2006-01-02", prop.Date.Start); err == nil {
					item.DueDate = &t
				} else if t, err := time.Parse(time.RFC3339, prop.Date.Start); err == nil {
					item.DueDate = &t
				}
			}
		}
	}
	return item
}

// MarkCompleted flips the page's status property to Done.
func (p *NotionProvider) MarkCompleted(ctx context.Context, integration *models.Integration, externalID string) error {
	body, _ := json.Marshal(map[string]interface{}{
		"properties": map[string]interface{}{
			"Status": map[string]interface{}{
				"status": map[string]string{"name": "Done"},
			},
		},
	})

	endpoint := fmt.Sprintf("%s/pages/%s", p.baseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	p.setHeaders(req, integration.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notion update returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *NotionProvider) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", notionAPIVersion)
	req.Header.Set("Content-Type", "application/json")
}
