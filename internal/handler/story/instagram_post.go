package story

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InstagramPostRequest describes the intended social post.
type InstagramPostRequest struct {
	ImagePaths []string               `json:"imagePaths"`
	Caption    string                 `json:"caption"`
	Config     map[string]interface{} `json:"config"`
}

// InstagramPost accepts a post request. Publishing is not wired to the
// platform yet, so the endpoint always reports the adapter as unimplemented.
// @Summary      Post story images to Instagram
// @Description  Reserved endpoint for publishing the gallery to Instagram. The adapter is a stub and always fails.
// @Tags         story
// @Accept       json
// @Produce      json
// @Param        request  body      InstagramPostRequest  true  "post content"
// @Failure      500      {object}  ErrorResponse  "publishing not implemented"
// @Router       /api/instagram [post]
func (h *Handler) InstagramPost(c *gin.Context) {
	var req InstagramPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	if _, err := h.storyService.PostInstagram(c.Request.Context(), req.ImagePaths, req.Caption, req.Config); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50005,
			Message: "Instagram posting is not implemented",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SendImagesEmailResponse{Success: true, Message: "posted"})
}
