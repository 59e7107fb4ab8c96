package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VoiceHandler applies typed or externally recognised transcripts.
type VoiceHandler struct{}

// NewVoiceHandler is the constructor function for initializing a new VoiceHandler.
func NewVoiceHandler() *VoiceHandler {
	return &VoiceHandler{}
}

// SubmitTranscript handles POST /v1/voice/transcript
func (h *VoiceHandler) SubmitTranscript(c *gin.Context) {
	ctl := controllerOrAbort(c)
	if ctl == nil {
		return
	}

	var request struct {
		Transcript string `json:"transcript" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transcript is required"})
		return
	}

	ctx := c.Request.Context()
	result := ctl.ProcessTranscript(ctx, request.Transcript)
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"state":  ctl.State(ctx),
	})
}
