package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"andon-console/internal/menu"
	"andon-console/internal/record"
	"andon-console/internal/selection"
)

// field renders an absent value as null.
func field(f selection.Field) *string {
	if !f.Present {
		return nil
	}
	v := f.Value
	return &v
}

type callView struct {
	Slot        int     `json:"slot"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
	Recipient   *string `json:"recipient"`
	Pressed     bool    `json:"pressed"`
}

type departmentView struct {
	Name *string `json:"name"`
	ID   *string `json:"id"`
}

type selectionResponse struct {
	Awake      bool           `json:"awake"`
	State      string         `json:"state"`
	Slot       *int           `json:"slot,omitempty"`
	Cursor     int            `json:"cursor"`
	Calls      []callView     `json:"calls"`
	Department departmentView `json:"department"`
}

// GetSelection handles GET /api/selection.
func (h *Handler) GetSelection(c *gin.Context) {
	snap := h.console.Snapshot()

	resp := selectionResponse{
		Awake:  snap.Awake,
		State:  snap.State.String(),
		Cursor: snap.Cursor,
		Calls:  make([]callView, len(snap.Calls)),
		Department: departmentView{
			Name: field(snap.Department.Name),
			ID:   field(snap.Department.ID),
		},
	}
	if snap.State == menu.ChooseCalls {
		slot := snap.Slot + 1
		resp.Slot = &slot
	}
	for i, call := range snap.Calls {
		resp.Calls[i] = callView{
			Slot:        i + 1,
			Status:      field(call.Status),
			Description: field(call.Description),
			Recipient:   field(call.Recipient),
			Pressed:     snap.Pressed[i],
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetCallRecords handles GET /api/records/calls. It returns the list from
// the console's last refresh.
func (h *Handler) GetCallRecords(c *gin.Context) {
	records := h.console.Snapshot().CallRecords
	if records == nil {
		records = []record.CallRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// GetDepartmentRecords handles GET /api/records/departments.
func (h *Handler) GetDepartmentRecords(c *gin.Context) {
	records := h.console.Snapshot().Departments
	if records == nil {
		records = []record.DeptRecord{}
	}
	c.JSON(http.StatusOK, records)
}
