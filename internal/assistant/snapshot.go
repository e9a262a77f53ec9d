package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dentalcare-connect-server/internal/models"
)

const (
	// BotID and BotName identify the one assistant account in the system.
	BotID   = "ai-bot"
	BotName = "Caramel AI"

	primarySlotLimit = 5
	otherSlotLimit   = 2
)

// DoctorSlots is one doctor's future unbooked availability as shown to the
// assistant.
type DoctorSlots struct {
	Name      string
	Specialty string
	Slots     []models.TimeSlot
}

// Snapshot is the read-only availability view the assistant may speak about.
// It must contain every fact the reply is allowed to state.
type Snapshot struct {
	Primary *DoctorSlots // the clinic's recommended doctor, mentioned first
	Others  []DoctorSlots
}

// BuildSnapshot filters each doctor's slots down to future unbooked ones,
// sorted soonest first and capped per doctor, with the primary doctor pulled
// out for prioritized mention.
func BuildSnapshot(doctors []models.User, slotsByDoctor map[string][]models.TimeSlot, primaryDoctorID string, now time.Time) Snapshot {
	var snap Snapshot
	for _, doc := range doctors {
		if doc.Role != models.RoleDoctor {
			continue
		}
		limit := otherSlotLimit
		if doc.ID == primaryDoctorID {
			limit = primarySlotLimit
		}
		ds := DoctorSlots{
			Name:      doc.Name,
			Specialty: doc.Specialty,
			Slots:     futureUnbooked(slotsByDoctor[doc.ID], now, limit),
		}
		if doc.ID == primaryDoctorID {
			primary := ds
			snap.Primary = &primary
		} else if len(ds.Slots) > 0 {
			snap.Others = append(snap.Others, ds)
		}
	}
	return snap
}

func futureUnbooked(slots []models.TimeSlot, now time.Time, limit int) []models.TimeSlot {
	var out []models.TimeSlot
	for _, s := range slots {
		if s.IsBooked {
			continue
		}
		at, err := time.ParseInLocation(models.SlotDateTimeLayout, s.Date+" "+s.Time, time.Local)
		if err != nil || !at.After(now) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// renderContext turns the snapshot into the factual preamble placed above
// the patient's question.
func renderContext(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("Current available doctors and their upcoming unbooked slots:\n")

	if snap.Primary != nil {
		if len(snap.Primary.Slots) > 0 {
			fmt.Fprintf(&b, "%s (%s):\n", snap.Primary.Name, snap.Primary.Specialty)
			for _, s := range snap.Primary.Slots {
				fmt.Fprintf(&b, "- %s at %s\n", s.Date, s.Time)
			}
		} else {
			fmt.Fprintf(&b, "%s (%s) has no upcoming unbooked slots at the moment.\n",
				snap.Primary.Name, snap.Primary.Specialty)
		}
	}

	if len(snap.Others) > 0 {
		b.WriteString("\nOther available doctors:\n")
		for _, d := range snap.Others {
			fmt.Fprintf(&b, "%s (%s):\n", d.Name, d.Specialty)
			for _, s := range d.Slots {
				fmt.Fprintf(&b, "- %s at %s\n", s.Date, s.Time)
			}
		}
	}

	if snap.Primary == nil && len(snap.Others) == 0 {
		return "No upcoming unbooked slots found for any doctors. Please check back later or ask for general information.\n"
	}
	return b.String()
}

func systemInstruction(primaryDoctorName, patientID string) string {
	primary := primaryDoctorName
	if primary == "" {
		primary = "our recommended dentist"
	}
	return fmt.Sprintf(`You are a friendly and helpful AI assistant for Dental Care Connect. Your name is %s.
%s is our primary and highly recommended dentist.
Your goal is to help patients (current patient ID: %s) find information about our dental services, doctors, and help them identify suitable appointment slots based *only* on the list of available slots provided above.
When suggesting doctors or slots, if %s has availability, please prioritize mentioning them and their slots.
Do not suggest booking if no slots are listed for a doctor or if the list is empty. Instead, inform the patient that no slots are currently available or to check again later.
If the patient asks to book an appointment, guide them to use the "Book New Appointment" feature in the app. You cannot book appointments directly.
Keep your responses concise, helpful, and polite. Do not make up information, services, or appointment slots not explicitly listed.
If asked about topics outside of dental care or appointment booking for this clinic, politely state that you can only assist with Dental Care Connect related queries.`,
		BotName, primary, patientID, primary)
}
