package catalogapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/metadata"
)

func newHardcoverTestAdapter(t *testing.T, serverURL string) *HardcoverAdapter {
	t.Helper()
	adapter, err := NewHardcoverAdapter(&HardcoverConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
	}, NewImageDownloader(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func hardcoverEditionJSON(edition map[string]any) string {
	body, _ := json.Marshal(map[string]any{
		"data": map[string]any{
			"editions": []any{edition},
		},
	})
	return string(body)
}

func TestNewHardcoverAdapter_RequiresAPIKey(t *testing.T) {
	_, err := NewHardcoverAdapter(&HardcoverConfig{}, NewImageDownloader(zap.NewNop()), zap.NewNop())
	assert.ErrorIs(t, err, ErrHardcoverMissingAPIKey)
}

func TestHardcoverAdapter_Fetch_ParsesEdition(t *testing.T) {
	var gotAuth string
	var gotVars map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var payload struct {
			Variables map[string]string `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotVars = payload.Variables

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hardcoverEditionJSON(map[string]any{
			"isbn_13":      "9781234567890",
			"title":        "The Go Programming Language",
			"subtitle":     "A Field Guide",
			"release_date": "2024-03-15",
			"publisher":    map[string]any{"name": "Addison-Wesley"},
			"book": map[string]any{
				"description": "A comprehensive guide.",
				"contributions": []any{
					map[string]any{"author": map[string]any{"name": "Alan Donovan"}},
					map[string]any{"author": map[string]any{"name": "Brian Kernighan"}},
				},
			},
		})))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9781234567890", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	require.Equal(t, metadata.StatusOK, result.Status)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "9781234567890", gotVars["isbn"])

	require.NotNil(t, result.Fields.Title)
	assert.Equal(t, "The Go Programming Language: A Field Guide", *result.Fields.Title)
	require.NotNil(t, result.Fields.Description)
	assert.Equal(t, "<p>A comprehensive guide.</p>", *result.Fields.Description)
	require.NotNil(t, result.Fields.Authors)
	assert.Equal(t, "Alan Donovan, Brian Kernighan", *result.Fields.Authors)
	require.NotNil(t, result.Fields.Publisher)
	assert.Equal(t, "Addison-Wesley", *result.Fields.Publisher)
	require.NotNil(t, result.Fields.PublicationDate)
	assert.Equal(t, "2024-03-15", *result.Fields.PublicationDate)
}

func TestHardcoverAdapter_Fetch_EmptyEditionsIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"editions":[]}}`))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	assert.Equal(t, metadata.StatusNotFound, result.Status)
	assert.True(t, result.Fields.IsEmpty())
}

func TestHardcoverAdapter_Fetch_GraphQLErrorsAreNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"field not permitted"}]}`))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	assert.Equal(t, metadata.StatusNotFound, result.Status)
}

func TestHardcoverAdapter_Fetch_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	assert.Equal(t, metadata.StatusUnavailable, result.Status)
	assert.Contains(t, result.Reason, "502")
}

func TestHardcoverAdapter_Fetch_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	assert.Equal(t, metadata.StatusUnavailable, result.Status)
	assert.NotEmpty(t, result.Reason)
}

func TestHardcoverAdapter_Fetch_StringPublisherTreatedAsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hardcoverEditionJSON(map[string]any{
			"title":     "Odd Payload",
			"publisher": "Just A String",
		})))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	require.Equal(t, metadata.StatusOK, result.Status)
	assert.Nil(t, result.Fields.Publisher)
	require.NotNil(t, result.Fields.Title)
	assert.Equal(t, "Odd Payload", *result.Fields.Title)
}

func TestHardcoverAdapter_Fetch_FillEmptyOnlySkipsPopulatedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hardcoverEditionJSON(map[string]any{
			"title":        "New Title",
			"release_date": "2024-01-01",
		})))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	snapshot := metadata.RecordSnapshot{Title: "Existing Title"}
	result := adapter.Fetch(context.Background(), "9780000000000", snapshot, metadata.FillEmptyOnly)

	require.Equal(t, metadata.StatusOK, result.Status)
	assert.Nil(t, result.Fields.Title)
	require.NotNil(t, result.Fields.PublicationDate)
	assert.Equal(t, "2024-01-01", *result.Fields.PublicationDate)
}

func TestHardcoverAdapter_Fetch_ForceOverwriteProposesEverything(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hardcoverEditionJSON(map[string]any{
			"title": "New Title",
		})))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	snapshot := metadata.RecordSnapshot{Title: "Existing Title"}
	result := adapter.Fetch(context.Background(), "9780000000000", snapshot, metadata.ForceOverwrite)

	require.Equal(t, metadata.StatusOK, result.Status)
	require.NotNil(t, result.Fields.Title)
	assert.Equal(t, "New Title", *result.Fields.Title)
}

func TestHardcoverAdapter_Fetch_DownloadsCoverImage(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-image-bytes"))
	}))
	defer imageServer.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hardcoverEditionJSON(map[string]any{
			"title":        "Illustrated",
			"cached_image": map[string]any{"url": imageServer.URL + "/cover.jpg"},
		})))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	require.Equal(t, metadata.StatusOK, result.Status)
	assert.Equal(t, []byte("fake-image-bytes"), result.Fields.CoverImage)
}

func TestHardcoverAdapter_Fetch_FailedImageDownloadOmitsField(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer imageServer.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hardcoverEditionJSON(map[string]any{
			"title":        "Illustrated",
			"cached_image": map[string]any{"url": imageServer.URL + "/cover.jpg"},
		})))
	}))
	defer server.Close()

	adapter := newHardcoverTestAdapter(t, server.URL)
	result := adapter.Fetch(context.Background(), "9780000000000", metadata.RecordSnapshot{}, metadata.FillEmptyOnly)

	require.Equal(t, metadata.StatusOK, result.Status)
	assert.Nil(t, result.Fields.CoverImage)
	require.NotNil(t, result.Fields.Title)
}
