package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dentalcare-connect-server/internal/middleware"
	"dentalcare-connect-server/internal/models"
	"dentalcare-connect-server/internal/utils"
)

// UserHandler handles user lookup requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetDoctors returns every doctor together with their availability so
// patients can pick a slot when booking.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Preload("Availability").
		Where("role = ?", models.RoleDoctor).
		Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	profiles := make([]models.DoctorProfile, len(doctors))
	for i, doctor := range doctors {
		availability := doctor.Availability
		if availability == nil {
			availability = []models.TimeSlot{}
		}
		profiles[i] = models.DoctorProfile{
			UserSanitized: doctor.Sanitize(),
			Availability:  availability,
		}
	}

	utils.Success(c, "Doctors fetched successfully", profiles)
}

// GetUserByID returns one user's public identity. Used by the chat views to
// resolve a conversation contact.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// GetDoctorPatients returns all patients. Doctors use this for the chat
// contact list.
func (h *UserHandler) GetDoctorPatients(c *gin.Context) {
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleDoctor {
		utils.Forbidden(c, "Only doctors can view patient lists")
		return
	}

	var patients []models.User
	if err := h.DB.Where("role = ?", models.RolePatient).Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(patients))
	for i, patient := range patients {
		sanitized[i] = patient.Sanitize()
	}

	utils.Success(c, "Patients fetched successfully", sanitized)
}
