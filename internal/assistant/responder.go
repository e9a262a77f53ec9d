package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Fixed fallback replies. A broken or unconfigured collaborator must never
// leak a raw error into the patient-visible chat.
const (
	ConfigFallback = "I'm sorry, my AI services are currently unavailable due to a configuration issue."
	ErrorFallback  = "I'm sorry, I'm having trouble connecting to my brain right now. Please try again later."
)

// DefaultTimeout bounds a single call to the text-generation collaborator.
const DefaultTimeout = 30 * time.Second

// Responder turns a patient message plus an availability snapshot into a
// reply. It is a thin prompt-construction layer: the snapshot bounds what
// the reply may claim, and the responder itself never books anything.
type Responder struct {
	gen     TextGenerator
	timeout time.Duration
}

// NewResponder creates a Responder. gen may be nil when the credential is
// missing; every reply is then the configuration fallback.
func NewResponder(gen TextGenerator, timeout time.Duration) *Responder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Responder{gen: gen, timeout: timeout}
}

// Reply produces the assistant's answer to message for the given patient.
// It never returns an error: any failure degrades to a fixed apology.
func (r *Responder) Reply(ctx context.Context, snap Snapshot, patientID, message string) string {
	if r.gen == nil {
		return ConfigFallback
	}

	primaryName := ""
	if snap.Primary != nil {
		primaryName = snap.Primary.Name
	}
	prompt := fmt.Sprintf("%s\nPatient question: %q", renderContext(snap), message)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.gen.Generate(callCtx, systemInstruction(primaryName, patientID), prompt)
	if err != nil {
		log.Printf("assistant: generation failed: %v", err)
		return ErrorFallback
	}
	if strings.TrimSpace(reply) == "" {
		return ErrorFallback
	}
	return reply
}
