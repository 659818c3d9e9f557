package anilist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"animelens/internal/anilist"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := anilist.New(""); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestMediaSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		var request struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !strings.Contains(request.Query, "Media(id: $id)") {
			t.Fatalf("unexpected query: %s", request.Query)
		}
		if id, ok := request.Variables["id"].(float64); !ok || int64(id) != 21 {
			t.Fatalf("unexpected id variable: %v", request.Variables["id"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Media":{
			"id":21,
			"title":{"romaji":"One Piece","english":"One Piece"},
			"coverImage":{"large":"https://img/large.jpg"},
			"description":"Gold Roger was known as the Pirate King.",
			"genres":["Action","Adventure"],
			"tags":[{"name":"Pirates","rank":95},{"name":"Shounen","rank":90}],
			"averageScore":88,
			"popularity":500000,
			"episodes":1000,
			"seasonYear":1999
		}}}`))
	}))
	t.Cleanup(server.Close)

	client, err := anilist.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	media, err := client.Media(context.Background(), 21)
	if err != nil {
		t.Fatalf("Media returned error: %v", err)
	}
	if media == nil {
		t.Fatal("expected media, got nil")
	}
	if media.ID != 21 || media.Title.Romaji != "One Piece" {
		t.Fatalf("unexpected media: %#v", media)
	}
	if len(media.Tags) != 2 || media.Tags[0].Name != "Pirates" {
		t.Fatalf("unexpected tags: %#v", media.Tags)
	}
}

func TestMediaNotFoundReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"data":{"Media":null},"errors":[{"message":"Not Found.","status":404}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := anilist.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	media, err := client.Media(context.Background(), 999999)
	if err != nil {
		t.Fatalf("expected missing entry to be non-fatal, got %v", err)
	}
	if media != nil {
		t.Fatalf("expected nil media, got %#v", media)
	}
}

func TestMediaRejectsNonPositiveID(t *testing.T) {
	client, err := anilist.New("https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Media(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}

func TestMediaSurfacesGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Too Many Requests.","status":429}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := anilist.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.Media(context.Background(), 21)
	if err == nil || !strings.Contains(err.Error(), "Too Many Requests") {
		t.Fatalf("expected rate limit error to surface, got %v", err)
	}
}

func TestBrowseFiltersByGenre(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		genres, ok := request.Variables["genres"].([]any)
		if !ok || len(genres) != 2 {
			t.Fatalf("unexpected genres variable: %v", request.Variables["genres"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Page":{"media":[
			{"id":1,"title":{"romaji":"A"},"genres":["Action"],"averageScore":80},
			{"id":2,"title":{"romaji":"B"},"genres":["Adventure"],"averageScore":75}
		]}}}`))
	}))
	t.Cleanup(server.Close)

	client, err := anilist.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	media, err := client.Browse(context.Background(), anilist.BrowseOptions{
		Genres: []string{"Action", "Adventure"},
	})
	if err != nil {
		t.Fatalf("Browse returned error: %v", err)
	}
	if len(media) != 2 || media[0].ID != 1 {
		t.Fatalf("unexpected page: %#v", media)
	}
}
