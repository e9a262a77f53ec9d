package seed

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"dentalcare-connect-server/internal/assistant"
	"dentalcare-connect-server/internal/models"
)

// Run makes sure the assistant identity exists and, when demo seeding is
// enabled, creates a few doctors with an initial availability block so the
// app is usable immediately after first start.
func Run(db *gorm.DB, primaryDoctorID string, demoData bool) error {
	if err := ensureAssistant(db); err != nil {
		return err
	}
	if demoData {
		return seedDemoDoctors(db, primaryDoctorID)
	}
	return nil
}

func ensureAssistant(db *gorm.DB) error {
	var bot models.User
	err := db.First(&bot, "id = ?", assistant.BotID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	bot = models.User{
		BaseModel: models.BaseModel{ID: assistant.BotID},
		Email:     "bot@dentalcare.local",
		Name:      assistant.BotName,
		Role:      models.RoleBot,
	}
	// The bot never logs in; give it an unusable random password hash input.
	if err := bot.SetPassword(fmt.Sprintf("bot-%d", time.Now().UnixNano())); err != nil {
		return err
	}
	log.Printf("seeding assistant identity %q", assistant.BotID)
	return db.Create(&bot).Error
}

func seedDemoDoctors(db *gorm.DB, primaryDoctorID string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleDoctor).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	doctors := []models.User{
		{
			BaseModel: models.BaseModel{ID: primaryDoctorID},
			Email:     "prabhakaran@clinic.local",
			Name:      "Dr. Prabhakaran",
			Role:      models.RoleDoctor,
			Specialty: models.DoctorSpecialties[0],
		},
		{
			Email:     "bob@clinic.local",
			Name:      "Dr. Bob Johnson",
			Role:      models.RoleDoctor,
			Specialty: models.DoctorSpecialties[1],
		},
		{
			Email:     "carol@clinic.local",
			Name:      "Dr. Carol White",
			Role:      models.RoleDoctor,
			Specialty: models.DoctorSpecialties[2],
		},
	}

	for i := range doctors {
		if err := doctors[i].SetPassword("changeme123"); err != nil {
			return err
		}
		if err := db.Create(&doctors[i]).Error; err != nil {
			return err
		}
	}

	// A first availability block for the primary doctor: tomorrow morning
	// plus two afternoon slots the day after.
	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.SlotDateLayout)
	dayAfter := time.Now().AddDate(0, 0, 2).Format(models.SlotDateLayout)
	slots := []models.TimeSlot{
		{DoctorID: primaryDoctorID, Date: tomorrow, Time: "09:00"},
		{DoctorID: primaryDoctorID, Date: tomorrow, Time: "10:00"},
		{DoctorID: primaryDoctorID, Date: tomorrow, Time: "11:00"},
		{DoctorID: primaryDoctorID, Date: dayAfter, Time: "14:00"},
		{DoctorID: primaryDoctorID, Date: dayAfter, Time: "15:00"},
	}
	for i := range slots {
		if err := db.Create(&slots[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("seeded %d demo doctors with initial availability", len(doctors))
	return nil
}
