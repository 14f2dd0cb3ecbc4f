// Package lastfm is a thin client for the Last.fm web API, covering the two
// lookups the playlist builder needs: top tracks by tag and by artist.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Last.fm client. An empty baseURL selects the
// production endpoint; tests inject an httptest server URL.
func NewClient(apiKey, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(defaultBaseURL, "/")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// TrackRecord is the raw track shape on the wire, before normalization.
type TrackRecord struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Image []ImageRecord `json:"image"`
}

type ImageRecord struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type tagTopTracksResponse struct {
	Tracks struct {
		Track []TrackRecord `json:"track"`
	} `json:"tracks"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

type artistTopTracksResponse struct {
	TopTracks struct {
		Track []TrackRecord `json:"track"`
	} `json:"toptracks"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// TopTracksByTag fetches up to limit top tracks carrying the given genre or
// decade tag.
func (c *Client) TopTracksByTag(ctx context.Context, tag string, limit int) ([]TrackRecord, error) {
	params := url.Values{}
	params.Set("method", "tag.gettoptracks")
	params.Set("tag", tag)

	var parsed tagTopTracksResponse
	if err := c.get(ctx, params, limit, &parsed); err != nil {
		return nil, err
	}
	if parsed.Error != 0 {
		return nil, fmt.Errorf("lastfm: tag.gettoptracks %q: %s", tag, parsed.Message)
	}
	return parsed.Tracks.Track, nil
}

// TopTracksByArtist fetches up to limit of the artist's most played tracks.
func (c *Client) TopTracksByArtist(ctx context.Context, artist string, limit int) ([]TrackRecord, error) {
	params := url.Values{}
	params.Set("method", "artist.gettoptracks")
	params.Set("artist", artist)

	var parsed artistTopTracksResponse
	if err := c.get(ctx, params, limit, &parsed); err != nil {
		return nil, err
	}
	if parsed.Error != 0 {
		return nil, fmt.Errorf("lastfm: artist.gettoptracks %q: %s", artist, parsed.Message)
	}
	return parsed.TopTracks.Track, nil
}

func (c *Client) get(ctx context.Context, params url.Values, limit int, out interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("lastfm: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lastfm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lastfm: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lastfm: decode response: %w", err)
	}
	return nil
}
