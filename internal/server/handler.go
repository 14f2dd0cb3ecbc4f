package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/evergreen-care/melodymind/internal/models"
)

// TagInferrer produces music-taste descriptors from a patient biography.
type TagInferrer interface {
	InferTags(ctx context.Context, profile models.PatientProfile) (*models.TagSet, error)
}

// PlaylistBuilder assembles a candidate playlist from a tag set.
type PlaylistBuilder interface {
	Build(ctx context.Context, tags models.TagSet) []models.Track
}

type Handler struct {
	inferrer TagInferrer
	builder  PlaylistBuilder
}

func NewHandler(inferrer TagInferrer, builder PlaylistBuilder) *Handler {
	return &Handler{
		inferrer: inferrer,
		builder:  builder,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/generate-playlist", h.GeneratePlaylist)
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}

type playlistResponse struct {
	PlaylistID string         `json:"playlistId"`
	Tags       *models.TagSet `json:"tags"`
	Playlist   []models.Track `json:"playlist"`
}

// GeneratePlaylist handles POST /api/generate-playlist: validate the
// biography, infer tags, aggregate tracks. Individual lookup failures are
// absorbed by the builder; only tag inference failures surface as 500s.
func (h *Handler) GeneratePlaylist(c *gin.Context) {
	var profile models.PatientProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if !profile.HasIdentity() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "at least one of birth_year, hometown or language is required",
		})
		return
	}

	ctx := c.Request.Context()

	tags, err := h.inferrer.InferTags(ctx, profile)
	if err != nil {
		log.Printf("ERROR: tag inference failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tracks := h.builder.Build(ctx, *tags)
	log.Printf("Generated playlist with %d track(s)", len(tracks))

	c.JSON(http.StatusOK, playlistResponse{
		PlaylistID: uuid.New().String(),
		Tags:       tags,
		Playlist:   tracks,
	})
}
