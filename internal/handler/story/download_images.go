package story

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fable/internal/service"
)

// DownloadImages streams the current gallery as a zip archive.
// @Summary      Download story images
// @Description  Packages every currently generated PNG into a zip archive and streams it as an attachment.
// @Tags         story
// @Produce      application/zip
// @Success      200  {file}    file           "story_images.zip"
// @Failure      400  {object}  ErrorResponse  "no generated images exist"
// @Failure      500  {object}  ErrorResponse  "packaging failed"
// @Router       /api/download-images [get]
func (h *Handler) DownloadImages(c *gin.Context) {
	data, err := h.storyService.GalleryZip()
	if err != nil {
		if errors.Is(err, service.ErrNoImages) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40003,
				Message: "No images have been generated yet",
			})
			return
		}
		log.Error().Err(err).Msg("gallery packaging failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50003,
			Message: "Failed to package images",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="story_images.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}
