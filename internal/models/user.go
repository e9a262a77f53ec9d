package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleBot     Role = "BOT"
)

// DoctorSpecialties is the fixed list a doctor chooses from at signup.
var DoctorSpecialties = []string{
	"General Dentistry",
	"Orthodontics",
	"Periodontics",
	"Endodontics",
	"Oral Surgery",
	"Pediatric Dentistry",
}

// IsValidSpecialty reports whether s is one of the fixed specialties.
func IsValidSpecialty(s string) bool {
	for _, sp := range DoctorSpecialties {
		if sp == s {
			return true
		}
	}
	return false
}

// User represents a user in the system. Doctors additionally carry a
// specialty and exclusively own their availability slots. Role is set at
// signup and never changes.
type User struct {
	BaseModel
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Name      string `gorm:"size:200;not null" json:"name"`
	Role      Role   `gorm:"size:20;default:'PATIENT'" json:"role"`
	Specialty string `gorm:"size:100" json:"specialty,omitempty"` // Doctors only

	// Relations (not always preloaded)
	Availability        []TimeSlot     `gorm:"foreignKey:DoctorID" json:"availability,omitempty"`
	RefreshTokens       []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	DoctorAppointments  []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	SentMessages        []Message      `gorm:"foreignKey:SenderID" json:"-"`
	ReceivedMessages    []Message      `gorm:"foreignKey:ReceiverID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DoctorProfile is the view returned to patients browsing doctors:
// identity plus the doctor's owned availability slots.
type DoctorProfile struct {
	UserSanitized
	Availability []TimeSlot `json:"availability"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Specialty: u.Specialty,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
