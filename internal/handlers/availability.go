package handlers

import (
	"github.com/gin-gonic/gin"

	"dentalcare-connect-server/internal/middleware"
	"dentalcare-connect-server/internal/scheduling"
	"dentalcare-connect-server/internal/utils"
)

// AvailabilityHandler exposes a doctor's slot management. Only the owning
// doctor can mutate their collection; anyone authenticated can read it.
type AvailabilityHandler struct {
	Svc *scheduling.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(svc *scheduling.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// GetDoctorAvailability lists a doctor's slots for the booking view.
func (h *AvailabilityHandler) GetDoctorAvailability(c *gin.Context) {
	doctorID := c.Param("id")

	slots, err := h.Svc.List(c.Request.Context(), doctorID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Availability fetched successfully", slots)
}

// GetMyAvailability lists the authenticated doctor's own slots.
func (h *AvailabilityHandler) GetMyAvailability(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	slots, err := h.Svc.List(c.Request.Context(), doctorID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Availability fetched successfully", slots)
}

// AddSlotRequest represents the request body for adding one slot.
type AddSlotRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Time string `json:"time" binding:"required,datetime=15:04"`
}

// AddSlot adds a single slot to the authenticated doctor's availability.
func (h *AvailabilityHandler) AddSlot(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req AddSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	slot, err := h.Svc.Add(c.Request.Context(), doctorID, req.Date, req.Time)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Created(c, "Time slot added successfully", slot)
}

// BulkAddRequest represents the request body for the working-day helper.
type BulkAddRequest struct {
	Date  string   `json:"date" binding:"required,datetime=2006-01-02"`
	Times []string `json:"times" binding:"required,min=1,dive,datetime=15:04"`
}

// BulkAddResponse reports how many of the requested slots were created.
type BulkAddResponse struct {
	Added int `json:"added"`
}

// BulkAddSlots adds a batch of slots on one date, skipping duplicates and
// past times. Partial success is the expected outcome.
func (h *AvailabilityHandler) BulkAddSlots(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req BulkAddRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	added, err := h.Svc.BulkAdd(c.Request.Context(), doctorID, req.Date, req.Times)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Slots added", BulkAddResponse{Added: added})
}

// RemoveSlot deletes one of the authenticated doctor's unbooked slots. A
// booked slot must be released through appointment cancellation first.
func (h *AvailabilityHandler) RemoveSlot(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	slotID := c.Param("slotId")
	if err := h.Svc.Remove(c.Request.Context(), doctorID, slotID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Time slot removed successfully", nil)
}
