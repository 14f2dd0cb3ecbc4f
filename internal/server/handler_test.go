package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/evergreen-care/melodymind/internal/models"
)

type stubInferrer struct {
	calls int
	tags  *models.TagSet
	err   error
}

func (s *stubInferrer) InferTags(ctx context.Context, profile models.PatientProfile) (*models.TagSet, error) {
	s.calls++
	return s.tags, s.err
}

type stubBuilder struct {
	calls  int
	tracks []models.Track
}

func (s *stubBuilder) Build(ctx context.Context, tags models.TagSet) []models.Track {
	s.calls++
	return s.tracks
}

func newTestRouter(inferrer TagInferrer, builder PlaylistBuilder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(inferrer, builder).RegisterRoutes(router)
	return router
}

func postProfile(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-playlist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleTags() *models.TagSet {
	return &models.TagSet{
		EraTags:      []string{"1960s", "1970s"},
		CulturalTags: []string{"highlife", "juju", "afrobeat", "palm-wine", "fuji", "apala", "soul", "funk"},
		Artists: []string{"Fela Kuti", "King Sunny Ade", "Ebenezer Obey", "I.K. Dairo", "Haruna Ishola",
			"Victor Olaiya", "Rex Lawson", "Victor Uwaifo", "Bobby Benson", "Celestine Ukwu",
			"Osita Osadebe", "Oliver De Coque", "Orlando Julius", "Segun Bucknor", "Tunde Nightingale",
			"Ayinla Omowura", "Dele Ojo", "Roy Chicago", "E.T. Mensah", "Prince Nico Mbarga"},
		CountryISO: "Nigeria",
	}
}

func TestGeneratePlaylist_Success(t *testing.T) {
	inferrer := &stubInferrer{tags: sampleTags()}
	builder := &stubBuilder{tracks: []models.Track{
		{Name: "Sweet Mother", Artist: "Prince Nico Mbarga", Source: "genre:highlife"},
	}}
	router := newTestRouter(inferrer, builder)

	w := postProfile(router, `{"birth_year": 1948, "hometown": "Lagos", "language": "Yoruba"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		PlaylistID string         `json:"playlistId"`
		Tags       models.TagSet  `json:"tags"`
		Playlist   []models.Track `json:"playlist"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.PlaylistID == "" {
		t.Error("expected a non-empty playlistId")
	}
	if len(resp.Tags.EraTags) != 2 || len(resp.Tags.CulturalTags) != 8 || len(resp.Tags.Artists) != 20 {
		t.Errorf("tags not echoed back intact: %+v", resp.Tags)
	}
	if len(resp.Playlist) != 1 || resp.Playlist[0].Name != "Sweet Mother" {
		t.Errorf("unexpected playlist: %+v", resp.Playlist)
	}
	if inferrer.calls != 1 || builder.calls != 1 {
		t.Errorf("expected one call each, got inferrer=%d builder=%d", inferrer.calls, builder.calls)
	}
}

func TestGeneratePlaylist_NumericOrStringBirthYear(t *testing.T) {
	for _, body := range []string{`{"birth_year": 1948}`, `{"birth_year": "1948"}`} {
		inferrer := &stubInferrer{tags: sampleTags()}
		router := newTestRouter(inferrer, &stubBuilder{})

		if w := postProfile(router, body); w.Code != http.StatusOK {
			t.Errorf("body %s: expected 200, got %d: %s", body, w.Code, w.Body.String())
		}
	}
}

func TestGeneratePlaylist_MissingIdentityFields(t *testing.T) {
	inferrer := &stubInferrer{tags: sampleTags()}
	builder := &stubBuilder{}
	router := newTestRouter(inferrer, builder)

	w := postProfile(router, `{"culture": "Yoruba", "resonant_songs": "Sweet Mother"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error message")
	}
	if inferrer.calls != 0 || builder.calls != 0 {
		t.Errorf("expected no upstream calls, got inferrer=%d builder=%d", inferrer.calls, builder.calls)
	}
}

func TestGeneratePlaylist_InvalidJSON(t *testing.T) {
	router := newTestRouter(&stubInferrer{}, &stubBuilder{})

	if w := postProfile(router, `{not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGeneratePlaylist_InferenceFailure(t *testing.T) {
	inferrer := &stubInferrer{err: errors.New("quota exceeded")}
	builder := &stubBuilder{}
	router := newTestRouter(inferrer, builder)

	w := postProfile(router, `{"hometown": "Lagos"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !strings.Contains(resp["error"], "quota exceeded") {
		t.Errorf("expected error message to surface, got %q", resp["error"])
	}
	if builder.calls != 0 {
		t.Errorf("builder should not run after inference failure, got %d calls", builder.calls)
	}
}

func TestGeneratePlaylist_EmptyPlaylistIsNotAnError(t *testing.T) {
	// metadata service fully down: tags come back, playlist is empty
	inferrer := &stubInferrer{tags: sampleTags()}
	builder := &stubBuilder{tracks: []models.Track{}}
	router := newTestRouter(inferrer, builder)

	w := postProfile(router, `{"hometown": "Lagos"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Tags     *models.TagSet `json:"tags"`
		Playlist []models.Track `json:"playlist"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Tags == nil || resp.Tags.CountryISO != "Nigeria" {
		t.Errorf("expected tags in response, got %+v", resp.Tags)
	}
	if resp.Playlist == nil || len(resp.Playlist) != 0 {
		t.Errorf("expected empty playlist array, got %+v", resp.Playlist)
	}
	if !strings.Contains(w.Body.String(), `"playlist":[]`) {
		t.Errorf("expected playlist serialized as [], got %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubInferrer{}, &stubBuilder{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", w.Code, w.Body.String())
	}
}
