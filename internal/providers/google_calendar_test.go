package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionTestServer(t *testing.T, existingDescription string, patched *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(calendarEvent{
				ID:          "evt-1",
				Summary:     "Weekly planning",
				Description: existingDescription,
			})
		case http.MethodPatch:
			require.NoError(t, json.NewDecoder(r.Body).Decode(patched))
			w.Write([]byte("{}"))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

// Marking an event completed must keep whatever description the event
// already had and add the note below it.
func TestGoogleCalendar_MarkCompletedAppendsToDescription(t *testing.T) {
	var patched map[string]string
	srv := completionTestServer(t, "Agenda in shared doc", &patched)
	defer srv.Close()

	p := NewGoogleCalendarProvider(srv.Client())
	p.SetBaseURL(srv.URL)

	err := p.MarkCompleted(context.Background(), &models.Integration{AccessToken: "token"}, "evt-1")
	require.NoError(t, err)

	desc := patched["description"]
	assert.True(t, strings.HasPrefix(desc, "Agenda in shared doc\n\n"), "description %q", desc)
	assert.Contains(t, desc, "Completed in MindMesh")
}

func TestGoogleCalendar_MarkCompletedEmptyDescription(t *testing.T) {
	var patched map[string]string
	srv := completionTestServer(t, "", &patched)
	defer srv.Close()

	p := NewGoogleCalendarProvider(srv.Client())
	p.SetBaseURL(srv.URL)

	err := p.MarkCompleted(context.Background(), &models.Integration{AccessToken: "token"}, "evt-1")
	require.NoError(t, err)

	desc := patched["description"]
	assert.True(t, strings.HasPrefix(desc, "✓ Completed in MindMesh"), "description %q", desc)
}

func TestGoogleCalendar_MarkCompletedFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewGoogleCalendarProvider(srv.Client())
	p.SetBaseURL(srv.URL)

	err := p.MarkCompleted(context.Background(), &models.Integration{AccessToken: "token"}, "evt-gone")
	assert.Error(t, err)
}
