package story

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fable/internal/render"
)

// RerenderImagesRequest re-renders already-generated pages with new styling.
type RerenderImagesRequest struct {
	Title           string   `json:"title"`
	Pages           []string `json:"pages" binding:"required,min=1"`
	FontFamily      string   `json:"fontFamily"`
	FontColor       string   `json:"fontColor"`       // CSS hex, e.g. "#222222"
	BackgroundColor string   `json:"backgroundColor"` // CSS hex
}

// RerenderImagesResponse lists the public paths of the new gallery.
type RerenderImagesResponse struct {
	ImagePaths []string `json:"imagePaths"`
}

// RerenderImages renders the supplied pages again with the requested style,
// replacing the current gallery. No text is regenerated.
// @Summary      Re-render story images
// @Description  Re-renders the supplied title and pages with new font and color options. Malformed style values fall back to defaults rather than failing the render.
// @Tags         story
// @Accept       json
// @Produce      json
// @Param        request  body      RerenderImagesRequest  true  "pages and style options"
// @Success      200      {object}  RerenderImagesResponse
// @Failure      400      {object}  ErrorResponse  "invalid request body"
// @Failure      500      {object}  ErrorResponse  "rendering failed"
// @Router       /api/rerender-images [post]
func (h *Handler) RerenderImages(c *gin.Context) {
	var req RerenderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	imagePaths, err := h.storyService.RerenderImages(c.Request.Context(), req.Title, req.Pages, render.Options{
		FontFamily:      req.FontFamily,
		TextColor:       req.FontColor,
		BackgroundColor: req.BackgroundColor,
	})
	if err != nil {
		log.Error().Err(err).Int("pages", len(req.Pages)).Msg("rerender failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50002,
			Message: "Failed to re-render images",
		})
		return
	}

	c.JSON(http.StatusOK, RerenderImagesResponse{ImagePaths: imagePaths})
}
