// Package story exposes the story pipeline over HTTP, one file per endpoint.
package story

import (
	"fable/internal/service"
)

// Handler groups the story endpoints around the pipeline service.
type Handler struct {
	storyService service.StoryService
}

// NewHandler creates the story handler.
func NewHandler(storyService service.StoryService) *Handler {
	return &Handler{storyService: storyService}
}
