package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crosti/buyerform/model"
	"github.com/crosti/buyerform/pkg/logger"
)

// ProfileSubmitter delivers one buyer profile.
type ProfileSubmitter interface {
	Submit(ctx context.Context, p *model.BuyerProfile) error
}

type SubmitHandler struct {
	submitter ProfileSubmitter
}

func NewSubmitHandler(submitter ProfileSubmitter) *SubmitHandler {
	return &SubmitHandler{submitter: submitter}
}

// Submit handles POST /api/submit-form. Every failure collapses to the same
// 500 body; the cause is only logged.
func (h *SubmitHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, model.ErrMalformedRequest)
		return
	}

	profile, err := model.ParseBuyerProfile(body)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.submitter.Submit(ctx, profile); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SubmitHandler) fail(c *gin.Context, err error) {
	logger.Failure(c.Request.Context(), "form submission failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process form submission"})
}
