package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dentalcare-connect-server/internal/middleware"
	"dentalcare-connect-server/internal/models"
	"dentalcare-connect-server/internal/scheduling"
	"dentalcare-connect-server/internal/utils"
)

// AppointmentHandler handles appointment related requests. All booking
// state changes go through the booking service; the handler only resolves
// identities and authorization.
type AppointmentHandler struct {
	DB      *gorm.DB
	Booking *scheduling.BookingService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, booking *scheduling.BookingService) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Booking: booking}
}

// CreateAppointmentRequest represents the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string `json:"time" binding:"required,datetime=15:04"`
	Comments string `json:"comments"`
}

// CreateAppointment books the doctor's slot at (date, time) for the
// authenticated patient. Patient and doctor names are captured here so the
// appointment record stays stable if either account is later renamed.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}

	var patient models.User
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load patient: "+err.Error())
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, scheduling.ErrDoctorNotFound.Error())
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	appt, err := h.Booking.Book(c.Request.Context(), scheduling.BookRequest{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		Date:        req.Date,
		Time:        req.Time,
		Comments:    req.Comments,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully", appt)
}

// GetAppointmentsForUser fetches appointments for the logged-in user.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error
	switch userRole {
	case models.RoleDoctor:
		appointments, err = h.Booking.ForDoctor(c.Request.Context(), userID)
	case models.RolePatient:
		appointments, err = h.Booking.ForPatient(c.Request.Context(), userID)
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment. Only the involved
// patient or doctor may see it.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.Booking.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if userID != appt.PatientID && userID != appt.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appt)
}

// UpdateAppointmentStatusRequest represents the request body for a status
// transition. Booked is not a valid target: appointments are only created
// booked, never returned to it.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=cancelled completed"`
}

// UpdateAppointmentStatus cancels or completes an appointment. Patients can
// cancel their own appointments; doctors can cancel or complete theirs.
// Cancelling releases the paired slot back to the doctor's availability.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.Booking.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	canUpdate := false
	switch userRole {
	case models.RoleDoctor:
		canUpdate = userID == appt.DoctorID
	case models.RolePatient:
		canUpdate = userID == appt.PatientID && req.Status == models.StatusCancelled
	}
	if !canUpdate {
		utils.Forbidden(c, "You are not authorized to perform this status transition.")
		return
	}

	updated, err := h.Booking.UpdateStatus(c.Request.Context(), appt.ID, req.Status)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment status updated successfully", updated)
}
