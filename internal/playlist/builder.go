// Package playlist assembles candidate playlists from a tag set: it fans out
// lookups against the music-metadata service, normalizes and deduplicates
// the results, then samples a fixed-size subset.
package playlist

import (
	"context"
	"log"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/evergreen-care/melodymind/internal/lastfm"
	"github.com/evergreen-care/melodymind/internal/models"
)

const (
	// MaxTracks caps the final playlist.
	MaxTracks = 25

	maxCulturalTags = 8
	maxArtists      = 20
	maxEraTags      = 2

	tagTrackLimit = 40
	// Artists get a smaller slice each so 20 of them cannot drown out the
	// genre and era lookups.
	artistTrackLimit = 8
)

// TrackSource is the music-metadata lookup surface. *lastfm.Client
// satisfies it.
type TrackSource interface {
	TopTracksByTag(ctx context.Context, tag string, limit int) ([]lastfm.TrackRecord, error)
	TopTracksByArtist(ctx context.Context, artist string, limit int) ([]lastfm.TrackRecord, error)
}

var _ TrackSource = (*lastfm.Client)(nil)

type Builder struct {
	source TrackSource
}

func NewBuilder(source TrackSource) *Builder {
	return &Builder{source: source}
}

// Build aggregates tracks for the tag set: genre lookups, then artist
// lookups, then era lookups, each group fanned out concurrently with
// per-item failure isolation. A lookup that fails contributes nothing; only
// the total absence of results yields an empty (non-error) playlist.
func (b *Builder) Build(ctx context.Context, tags models.TagSet) []models.Track {
	var gathered []models.Track

	gathered = append(gathered, b.fetchGroup(ctx, truncate(tags.CulturalTags, maxCulturalTags), "genre:",
		func(ctx context.Context, tag string) ([]lastfm.TrackRecord, error) {
			return b.source.TopTracksByTag(ctx, tag, tagTrackLimit)
		})...)

	gathered = append(gathered, b.fetchGroup(ctx, truncate(tags.Artists, maxArtists), "artist:",
		func(ctx context.Context, artist string) ([]lastfm.TrackRecord, error) {
			return b.source.TopTracksByArtist(ctx, artist, artistTrackLimit)
		})...)

	gathered = append(gathered, b.fetchGroup(ctx, truncate(tags.EraTags, maxEraTags), "era:",
		func(ctx context.Context, era string) ([]lastfm.TrackRecord, error) {
			return b.source.TopTracksByTag(ctx, era, tagTrackLimit)
		})...)

	unique := Dedupe(gathered)

	rand.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})
	if len(unique) > MaxTracks {
		unique = unique[:MaxTracks]
	}
	return unique
}

// fetchGroup issues one lookup per item concurrently and collects whatever
// succeeded, preserving item order. A failed item resolves to zero tracks
// and never aborts its siblings.
func (b *Builder) fetchGroup(ctx context.Context, items []string, sourcePrefix string,
	fetch func(ctx context.Context, item string) ([]lastfm.TrackRecord, error)) []models.Track {

	results := make([][]models.Track, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			records, err := fetch(ctx, item)
			if err != nil {
				log.Printf("WARN playlist: lookup %s%s failed: %v", sourcePrefix, item, err)
				return
			}
			tracks := make([]models.Track, 0, len(records))
			for _, rec := range records {
				tracks = append(tracks, Normalize(rec, sourcePrefix+item))
			}
			results[i] = tracks
		}(i, item)
	}
	wg.Wait()

	var merged []models.Track
	for _, tracks := range results {
		merged = append(merged, tracks...)
	}
	return merged
}

// Normalize converts a raw wire record into a Track. A record with no
// artist normalizes to "Unknown"; a record with neither a medium nor a
// large image normalizes to an empty image.
func Normalize(rec lastfm.TrackRecord, source string) models.Track {
	artist := rec.Artist.Name
	if artist == "" {
		artist = "Unknown"
	}
	return models.Track{
		Name:   rec.Name,
		Artist: artist,
		URL:    rec.URL,
		Image:  pickImage(rec.Image),
		Source: source,
	}
}

func pickImage(images []lastfm.ImageRecord) string {
	var large string
	for _, img := range images {
		switch img.Size {
		case "medium":
			if img.URL != "" {
				return img.URL
			}
		case "large":
			if large == "" {
				large = img.URL
			}
		}
	}
	return large
}

// Dedupe keeps the first occurrence per case-insensitive (artist, name)
// pair, preserving order otherwise.
func Dedupe(tracks []models.Track) []models.Track {
	seen := make(map[string]bool, len(tracks))
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		key := strings.ToLower(t.Artist) + "|" + strings.ToLower(t.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
