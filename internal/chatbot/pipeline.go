package chatbot

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"school-clinic-server/internal/models"
)

// Fixed conversational replies. Model and parsing failures are absorbed into
// these instead of surfacing as transport errors.
const (
	busyReply        = "My AI brain is a bit busy. Please try again in 10 seconds."
	systemErrorReply = "System error processing your request. Please try again."
)

// Caller identifies the student the pipeline acts on behalf of.
type Caller struct {
	ID       string
	FullName string
}

// HistoryEntry is one caller-supplied prior turn of the conversation.
type HistoryEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Reply is the single outcome of a chat turn. RequiresAction is a
// forward-compatible placeholder for flows needing client confirmation and is
// currently always false.
type Reply struct {
	Response       string `json:"response"`
	RequiresAction bool   `json:"requires_action"`
}

// Pipeline turns one chat turn, given the caller's identity and active
// appointments, into exactly one outcome: a conversational reply, a booked
// appointment, or a canceled appointment.
type Pipeline struct {
	DB           *gorm.DB
	LLM          Generator
	HistoryLimit int
}

// NewPipeline creates a Pipeline. historyLimit caps the number of prior turns
// forwarded to the model.
func NewPipeline(db *gorm.DB, llm Generator, historyLimit int) *Pipeline {
	return &Pipeline{DB: db, LLM: llm, HistoryLimit: historyLimit}
}

// Respond handles one chat turn. The returned error is non-nil only when the
// appointment-context query fails (an infrastructure failure the caller
// surfaces as a server error); every model or parsing failure is converted to
// a conversational reply.
func (p *Pipeline) Respond(ctx context.Context, caller Caller, message string, history []HistoryEntry) (Reply, error) {
	// Step 1: the caller's live appointments, freshly queried each turn.
	var active []models.Appointment
	err := p.DB.
		Where("student_id = ? AND status IN ?", caller.ID,
			[]models.AppointmentStatus{models.StatusPending, models.StatusApproved}).
		Order("appointment_date asc").
		Find(&active).Error
	if err != nil {
		return Reply{}, fmt.Errorf("loading appointment context: %w", err)
	}

	// Step 2: instruction block + fixed acknowledgment open the conversation.
	instruction := ComposeInstruction(caller.FullName, time.Now().Format("2006-01-02"), RenderAppointments(active))
	turns := []Turn{
		{Role: "user", Text: instruction},
		{Role: "model", Text: acknowledgment},
	}
	for _, h := range truncateHistory(history, p.HistoryLimit) {
		role := "model"
		if h.Role == "user" {
			role = "user"
		}
		turns = append(turns, Turn{Role: role, Text: h.Message})
	}

	// Step 3: single blocking model call, no retry.
	generated, err := p.LLM.Generate(ctx, turns, message)
	if err != nil {
		log.Printf("chatbot: model call failed: %v", err)
		return Reply{Response: busyReply}, nil
	}

	// Step 4: look for an embedded structured action.
	action, err := ExtractAction(generated)
	if err != nil {
		log.Printf("chatbot: action parsing failed: %v", err)
		return Reply{Response: systemErrorReply}, nil
	}
	if action == nil {
		return Reply{Response: generated}, nil
	}

	switch action.Kind {
	case ActionBook:
		return p.executeBook(caller, action.Book), nil
	case ActionCancel:
		return p.executeCancel(caller, action.Cancel), nil
	default:
		return Reply{Response: generated}, nil
	}
}

// truncateHistory keeps the most recent limit entries, oldest-kept order
// preserved.
func truncateHistory(history []HistoryEntry, limit int) []HistoryEntry {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}

func (p *Pipeline) executeBook(caller Caller, book *BookAction) Reply {
	appt := models.Appointment{
		StudentID:       caller.ID,
		AppointmentDate: book.Date,
		AppointmentTime: book.Time,
		ServiceType:     models.ServiceType(book.ServiceType),
		Urgency:         models.Urgency(book.Urgency),
		Reason:          book.Reason,
		BookingMode:     models.BookingChatbot,
		Status:          models.StatusPending,
	}

	switch err := models.BookSlot(p.DB, &appt); err {
	case nil:
		msg := fmt.Sprintf("Booked for %s at %s!", book.Date, book.Time)
		if book.AIAdvice != "" {
			msg += "\n\nHealth Tip: " + book.AIAdvice
		}
		return Reply{Response: msg}
	case models.ErrSlotTaken:
		// Soft conflict, not an error.
		return Reply{Response: fmt.Sprintf("That time (%s) is already taken! Please choose another time.", book.Time)}
	default:
		log.Printf("chatbot: booking failed: %v", err)
		return Reply{Response: systemErrorReply}
	}
}

func (p *Pipeline) executeCancel(caller Caller, cancel *CancelAction) Reply {
	// Ownership mismatch and absence produce the same reply on purpose: the
	// caller learns nothing about other students' appointments.
	var appt models.Appointment
	err := p.DB.Where("id = ? AND student_id = ?", cancel.AppointmentID, caller.ID).First(&appt).Error
	if err == gorm.ErrRecordNotFound {
		return Reply{Response: fmt.Sprintf("I couldn't find Appointment #%s. Please check the list.", cancel.AppointmentID)}
	}
	if err != nil {
		log.Printf("chatbot: cancel lookup failed: %v", err)
		return Reply{Response: systemErrorReply}
	}

	if err := p.DB.Model(&appt).Update("status", models.StatusCanceled).Error; err != nil {
		log.Printf("chatbot: cancel update failed: %v", err)
		return Reply{Response: systemErrorReply}
	}
	return Reply{Response: fmt.Sprintf("Okay, appointment #%s has been canceled.", cancel.AppointmentID)}
}
