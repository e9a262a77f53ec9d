package models

// TimeSlot is one bookable hour in a doctor's availability. A doctor can
// hold at most one slot per (date, time); PatientID is set exactly when
// IsBooked is true.
type TimeSlot struct {
	BaseModel
	DoctorID  string  `gorm:"size:36;index;uniqueIndex:idx_doctor_date_time" json:"doctorId"`
	Date      string  `gorm:"size:10;uniqueIndex:idx_doctor_date_time" json:"date"` // YYYY-MM-DD
	Time      string  `gorm:"size:5;uniqueIndex:idx_doctor_date_time" json:"time"`  // HH:MM, start of a 1-hour slot
	IsBooked  bool    `gorm:"default:false" json:"isBooked"`
	PatientID *string `gorm:"size:36" json:"patientId,omitempty"`

	// Relations
	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

// SlotDateTimeLayout is the parse layout for a slot's combined date and time.
const SlotDateTimeLayout = "2006-01-02 15:04"

// SlotDateLayout and SlotTimeLayout are the individual field layouts.
const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)
