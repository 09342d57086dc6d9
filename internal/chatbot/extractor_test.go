package chatbot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-clinic-server/internal/chatbot"
)

func TestExtractBookAction(t *testing.T) {
	text := `Sure, let me book that for you.
{
  "action": "book_appointment",
  "date": "2026-09-01",
  "time": "14:00:00",
  "reason": "headache",
  "service_type": "Medical Consultation",
  "urgency": "Normal",
  "ai_advice": "Drink water."
}
Anything else?`

	action, err := chatbot.ExtractAction(text)
	require.NoError(t, err)
	require.NotNil(t, action)
	require.Equal(t, chatbot.ActionBook, action.Kind)
	require.NotNil(t, action.Book)
	assert.Equal(t, "2026-09-01", action.Book.Date)
	assert.Equal(t, "14:00:00", action.Book.Time)
	assert.Equal(t, "headache", action.Book.Reason)
	assert.Equal(t, "Medical Consultation", action.Book.ServiceType)
	assert.Equal(t, "Normal", action.Book.Urgency)
	assert.Equal(t, "Drink water.", action.Book.AIAdvice)
}

func TestExtractCancelAction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"quoted id", `{"action": "cancel_appointment", "appointment_id": "abc-123"}`, "abc-123"},
		{"numeric id", `{"action": "cancel_appointment", "appointment_id": 5}`, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := chatbot.ExtractAction(tt.text)
			require.NoError(t, err)
			require.NotNil(t, action)
			require.Equal(t, chatbot.ActionCancel, action.Kind)
			require.NotNil(t, action.Cancel)
			assert.Equal(t, tt.want, action.Cancel.AppointmentID)
		})
	}
}

func TestExtractNoAction(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain text", "When would you like to schedule that?"},
		{"unknown action", `{"action": "reschedule_appointment", "appointment_id": 5}`},
		{"json without action", `{"date": "2026-09-01"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := chatbot.ExtractAction(tt.text)
			require.NoError(t, err)
			assert.Nil(t, action)
		})
	}
}

func TestExtractIncompleteAction(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"book with no fields", `{"action": "book_appointment"}`},
		{"book missing time", `{"action": "book_appointment", "date": "2026-09-01", "reason": "headache", "service_type": "Medical Consultation", "urgency": "Normal"}`},
		{"book missing urgency", `{"action": "book_appointment", "date": "2026-09-01", "time": "14:00:00", "reason": "headache", "service_type": "Medical Consultation"}`},
		{"cancel with no id", `{"action": "cancel_appointment"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := chatbot.ExtractAction(tt.text)
			assert.Error(t, err)
			assert.Nil(t, action)
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"truncated json", `{"action": "book_appointment", "date": }`},
		{"not json at all", "set {a, b} and {c, d} are disjoint}"},
		{"closing brace before opening", "} nothing here {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := chatbot.ExtractAction(tt.text)
			assert.Error(t, err)
			assert.Nil(t, action)
		})
	}
}
