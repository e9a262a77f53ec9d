package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a booked visit. PatientName and DoctorName are
// snapshots taken at booking time so history stays accurate even if a user
// later renames their account; this duplication is intentional.
// Appointments are never deleted, only transitioned.
type Appointment struct {
	BaseModel
	PatientID   string            `gorm:"size:36;index" json:"patientId"`
	PatientName string            `gorm:"size:200" json:"patientName"`
	DoctorID    string            `gorm:"size:36;index" json:"doctorId"`
	DoctorName  string            `gorm:"size:200" json:"doctorName"`
	Date        string            `gorm:"size:10" json:"date"` // YYYY-MM-DD
	Time        string            `gorm:"size:5" json:"time"`  // HH:MM
	Status      AppointmentStatus `gorm:"size:20;default:'booked'" json:"status"`
	Comments    string            `gorm:"type:text" json:"comments,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}
