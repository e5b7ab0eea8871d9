package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/constants"
	"github.com/mindmesh/mindmesh-api/internal/models"
)

const googleCalendarBaseURL = "https://www.googleapis.com/calendar/v3"

// GoogleCalendarProvider lists upcoming primary-calendar events and writes
// completion notes back into event descriptions.
type GoogleCalendarProvider struct {
	httpClient *http.Client
	baseURL    string
}

func NewGoogleCalendarProvider(httpClient *http.Client) *GoogleCalendarProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleCalendarProvider{httpClient: httpClient, baseURL: googleCalendarBaseURL}
}

// SetBaseURL overrides the API endpoint (used for testing)
func (p *GoogleCalendarProvider) SetBaseURL(u string) {
	p.baseURL = u
}

func (p *GoogleCalendarProvider) System() models.ExternalSystem {
	return models.SystemGoogleCalendar
}

type calendarEvent struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Start       struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"start"`
}

type calendarEventList struct {
	Items []calendarEvent `json:"items"`
}

// ListItems returns events in the upcoming import window.
func (p *GoogleCalendarProvider) ListItems(ctx context.Context, integration *models.Integration) ([]Item, error) {
	now := time.Now()
	windowEnd := now.AddDate(0, 0, constants.CalendarImportWindowDays)

	q := url.Values{}
	q.Set("timeMin", now.Format(time.RFC3339))
	q.Set("timeMax", windowEnd.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/primary/events?%s", p.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar list returned status %d", resp.StatusCode)
	}

	var list calendarEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}

	items := make([]Item, 0, len(list.Items))
	for _, ev := range list.Items {
		if ev.Status == "cancelled" {
			continue
		}
		item := Item{
			ExternalID:  ev.ID,
			Title:       ev.Summary,
			Description: ev.Description,
			Status:      ev.Status,
		}
		if due := parseEventStart(ev); due != nil {
			item.DueDate = due
		}
		items = append(items, item)
	}
	return items, nil
}

func parseEventStart(ev calendarEvent) *time.Time {
	if ev.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			return &t
		}
	}
	if ev.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", ev.Start.Date); err == nil {
			return &t
		}
	}
	return nil
}

// MarkCompleted appends a completion note to the event description. The
// existing description is fetched first and kept.
func (p *GoogleCalendarProvider) MarkCompleted(ctx context.Context, integration *models.Integration, externalID string) error {
	endpoint := fmt.Sprintf("%s/calendars/primary/events/%s", p.baseURL, url.PathEscape(externalID))

	current, err := p.fetchEvent(ctx, integration, endpoint)
	if err != nil {
		return err
	}

	description := fmt.Sprintf("✓ Completed in MindMesh on %s", time.Now().Format("2006-01-02"))
	if current.Description != "" {
		description = current.Description + "\n\n" + description
	}

	body, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar update returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *GoogleCalendarProvider) fetchEvent(ctx context.Context, integration *models.Integration, endpoint string) (*calendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar get request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar get returned status %d", resp.StatusCode)
	}

	var ev calendarEvent
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return nil, fmt.Errorf("failed to decode calendar event: %w", err)
	}
	return &ev, nil
}
