package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"andon-console/internal/menu"
	"andon-console/internal/panel"
	"andon-console/internal/selection"
)

type screenResponse struct {
	Backlight bool                      `json:"backlight"`
	Lines     [panel.Lines]panel.Line   `json:"lines"`
	Lamps     [selection.SlotCount]bool `json:"lamps"`
}

// GetScreen handles GET /api/screen.
func (h *Handler) GetScreen(c *gin.Context) {
	resp := screenResponse{
		Backlight: h.panel.Screen.Backlight(),
		Lines:     h.panel.Screen.Snapshot(),
	}
	if h.panel.Lamps != nil {
		resp.Lamps = h.panel.Lamps.Lit()
	}
	c.JSON(http.StatusOK, resp)
}

// PressButton handles POST /api/buttons/:button.
func (h *Handler) PressButton(c *gin.Context) {
	button, err := menu.ParseButton(c.Param("button"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.panel.Buttons.Push(button) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "button queue is full"})
		return
	}
	c.Status(http.StatusAccepted)
}

type putCallRequest struct {
	Pressed *bool `json:"pressed" binding:"required"`
}

// PutCall handles PUT /api/calls/:slot. Slots are numbered 1 to 3 as on the
// console.
func (h *Handler) PutCall(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 1 || slot > selection.SlotCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call slot"})
		return
	}

	var req putCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.panel.Switches.Set(slot-1, *req.Pressed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
