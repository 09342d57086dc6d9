package chatbot

import (
	"encoding/json"
	"errors"
	"strings"
)

// Action kinds the extractor recognizes.
const (
	ActionBook   = "book_appointment"
	ActionCancel = "cancel_appointment"
)

// BookAction is a structured booking command extracted from model output.
type BookAction struct {
	Date        string
	Time        string
	Reason      string
	ServiceType string
	Urgency     string
	AIAdvice    string
}

// CancelAction is a structured cancellation command extracted from model output.
type CancelAction struct {
	AppointmentID string
}

// Action is the typed result of a successful extraction. Exactly one of Book
// and Cancel is set, matching Kind.
type Action struct {
	Kind   string
	Book   *BookAction
	Cancel *CancelAction
}

// flexID accepts both a JSON string and a bare number, since the model does
// not reliably quote the appointment id.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	*f = flexID(strings.Trim(string(data), `"`))
	return nil
}

type actionPayload struct {
	Action        string `json:"action"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Reason        string `json:"reason"`
	ServiceType   string `json:"service_type"`
	Urgency       string `json:"urgency"`
	AIAdvice      string `json:"ai_advice"`
	AppointmentID flexID `json:"appointment_id"`
}

// ExtractAction scans text for a brace-delimited JSON command. It returns
// (nil, nil) when no action is embedded (no braces, or a payload naming no
// known action), a typed action on success, and an error when braces exist
// but the enclosed substring is not valid JSON, or when a recognized action
// is missing a required field.
func ExtractAction(text string) (*Action, error) {
	open := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if open == -1 || last == -1 {
		return nil, nil
	}
	if last < open {
		return nil, errors.New("unbalanced braces in generated text")
	}

	var payload actionPayload
	if err := json.Unmarshal([]byte(text[open:last+1]), &payload); err != nil {
		return nil, err
	}

	switch payload.Action {
	case ActionBook:
		for _, field := range []string{payload.Date, payload.Time, payload.Reason, payload.ServiceType, payload.Urgency} {
			if field == "" {
				return nil, errors.New("book_appointment action is missing a required field")
			}
		}
		return &Action{
			Kind: ActionBook,
			Book: &BookAction{
				Date:        payload.Date,
				Time:        payload.Time,
				Reason:      payload.Reason,
				ServiceType: payload.ServiceType,
				Urgency:     payload.Urgency,
				AIAdvice:    payload.AIAdvice,
			},
		}, nil
	case ActionCancel:
		if payload.AppointmentID == "" {
			return nil, errors.New("cancel_appointment action is missing the appointment id")
		}
		return &Action{
			Kind:   ActionCancel,
			Cancel: &CancelAction{AppointmentID: string(payload.AppointmentID)},
		}, nil
	default:
		return nil, nil
	}
}
