package story

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fable/internal/ai"
)

// GenerateStoryRequest carries the narrative parameters. Field names follow
// the public API contract.
type GenerateStoryRequest struct {
	EraOrCulture      string `json:"ERA_OR_CULTURE" binding:"required"` // setting, e.g. "Ancient Greece"
	StoryOrCharacter  string `json:"STORY_OR_CHARACTER"`                // subject, e.g. "Sisyphus"
	HookStyle         string `json:"hookStyle"`
	DarknessLevel     string `json:"darknessLevel"`
	DialogueDensity   string `json:"dialogueDensity"`
	MoralExplicitness string `json:"moralExplicitness"`
}

// GenerateStoryResponse is the parsed story plus the rendered gallery.
type GenerateStoryResponse struct {
	Title           string   `json:"title"`
	Pages           []string `json:"pages"`
	ImagePaths      []string `json:"imagePaths"` // index 0 is the title page
	TextColor       string   `json:"textColor"`
	BackgroundColor string   `json:"backgroundColor"`
}

// GenerateStory runs the full pipeline: prose generation, parsing, and one
// PNG per page.
// @Summary      Generate an illustrated story
// @Description  Generates story text from the narrative parameters, parses it into title and pages, and renders every page to a square PNG. Replaces any previously generated gallery.
// @Tags         story
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateStoryRequest  true  "narrative parameters"
// @Success      200      {object}  GenerateStoryResponse
// @Failure      400      {object}  ErrorResponse  "invalid request body"
// @Failure      500      {object}  ErrorResponse  "generation or rendering failed"
// @Router       /api/story [post]
func (h *Handler) GenerateStory(c *gin.Context) {
	var req GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.storyService.GenerateStory(c.Request.Context(), ai.StoryParams{
		EraOrCulture:      req.EraOrCulture,
		StoryOrCharacter:  req.StoryOrCharacter,
		HookStyle:         req.HookStyle,
		DarknessLevel:     req.DarknessLevel,
		DialogueDensity:   req.DialogueDensity,
		MoralExplicitness: req.MoralExplicitness,
	})
	if err != nil {
		// Provider and engine details stay in the server log.
		log.Error().Err(err).Str("era", req.EraOrCulture).Msg("story generation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "Failed to generate story",
		})
		return
	}

	c.JSON(http.StatusOK, GenerateStoryResponse{
		Title:           result.Title,
		Pages:           result.Pages,
		ImagePaths:      result.ImagePaths,
		TextColor:       result.TextColor,
		BackgroundColor: result.BackgroundColor,
	})
}
