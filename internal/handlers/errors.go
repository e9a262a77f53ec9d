package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"dentalcare-connect-server/internal/scheduling"
	"dentalcare-connect-server/internal/utils"
)

// respondSchedulingError maps the scheduling error kinds onto HTTP statuses
// so the presentation layer can branch: validation problems are 400,
// missing records 404, booking races 409.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrDoctorNotFound),
		errors.Is(err, scheduling.ErrSlotNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, scheduling.ErrDuplicateSlot),
		errors.Is(err, scheduling.ErrPastSlot),
		errors.Is(err, scheduling.ErrInvalidSlotTime),
		errors.Is(err, scheduling.ErrIllegalTransition):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrSlotAlreadyBooked),
		errors.Is(err, scheduling.ErrSlotInUse),
		errors.Is(err, scheduling.ErrDoctorBusy):
		utils.Conflict(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
