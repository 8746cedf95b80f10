package story

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fable/internal/service"
)

// SendImagesEmailRequest asks for the gallery to be mailed as a zip.
type SendImagesEmailRequest struct {
	Email            string   `json:"email" binding:"required"`
	ImagePaths       []string `json:"imagePaths" binding:"required,min=1"`
	EraOrCulture     string   `json:"ERA_OR_CULTURE"`     // used for the attachment name
	StoryOrCharacter string   `json:"STORY_OR_CHARACTER"` // used for the attachment name
}

// SendImagesEmailResponse reports the delivery outcome.
type SendImagesEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendImagesEmail zips the requested images and mails them to the recipient.
// Requested paths are matched against the server-side gallery; paths that do
// not correspond to generated files are ignored.
// @Summary      Email story images
// @Description  Packages the requested generated images into a zip and sends it to the given address. The recipient domain is restricted by server policy.
// @Tags         story
// @Accept       json
// @Produce      json
// @Param        request  body      SendImagesEmailRequest  true  "recipient and image paths"
// @Success      200      {object}  SendImagesEmailResponse
// @Failure      400      {object}  ErrorResponse  "invalid recipient or no matching images"
// @Failure      500      {object}  ErrorResponse  "relay delivery failed"
// @Router       /api/send-images-email [post]
func (h *Handler) SendImagesEmail(c *gin.Context) {
	var req SendImagesEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	if err := h.storyService.ValidateRecipient(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40004,
			Message: "Invalid recipient address",
			Detail:  err.Error(),
		})
		return
	}

	name := service.AttachmentName(req.EraOrCulture, req.StoryOrCharacter)
	if err := h.storyService.SendGalleryEmail(req.Email, req.ImagePaths, name); err != nil {
		if errors.Is(err, service.ErrNoImages) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40003,
				Message: "None of the requested images exist",
			})
			return
		}
		log.Error().Err(err).Str("to", req.Email).Msg("email delivery failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50004,
			Message: "Failed to send email",
		})
		return
	}

	c.JSON(http.StatusOK, SendImagesEmailResponse{
		Success: true,
		Message: "Images sent to " + req.Email,
	})
}
