package models

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusCompleted AppointmentStatus = "completed"
	StatusCanceled  AppointmentStatus = "canceled"
)

// ServiceType enumerates the services the clinic offers.
type ServiceType string

const (
	ServiceConsultation ServiceType = "Medical Consultation"
	ServiceClearance    ServiceType = "Medical Clearance"
)

// Urgency of a visit, as assessed at booking time.
type Urgency string

const (
	UrgencyNormal Urgency = "Normal"
	UrgencyUrgent Urgency = "Urgent"
)

// BookingMode distinguishes appointments created via the standard form from
// those created by the conversational assistant.
type BookingMode string

const (
	BookingStandard BookingMode = "standard"
	BookingChatbot  BookingMode = "ai_chatbot"
)

// Appointment represents a scheduled clinic visit. Date and time are kept as
// plain strings ("YYYY-MM-DD", "HH:MM:SS") so slot comparisons are exact and
// the API renders them as text.
type Appointment struct {
	BaseModel
	StudentID       string            `gorm:"size:36;index" json:"student_id"`
	AppointmentDate string            `gorm:"size:10;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"size:8" json:"appointment_time"`
	ServiceType     ServiceType       `gorm:"size:50" json:"service_type"`
	Urgency         Urgency           `gorm:"size:20;default:'Normal'" json:"urgency"`
	Reason          string            `gorm:"size:255" json:"reason"`
	BookingMode     BookingMode       `gorm:"size:20;default:'standard'" json:"booking_mode"`
	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	AdminNote       string            `gorm:"type:text" json:"admin_note"`

	// Relations
	Student User `gorm:"foreignKey:StudentID" json:"-"`
}

// ErrSlotTaken reports that a non-canceled appointment already occupies the
// requested (date, time) slot.
var ErrSlotTaken = errors.New("appointment slot already taken")

// BookSlot inserts the appointment unless a non-canceled appointment already
// occupies its (date, time) pair. The probe and the insert run in one
// transaction, with a row lock on MySQL, so two concurrent bookings for the
// same slot cannot both pass the check.
func BookSlot(db *gorm.DB, appt *Appointment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		probe := tx.Model(&Appointment{})
		if tx.Dialector.Name() == "mysql" {
			probe = probe.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var count int64
		err := probe.
			Where("appointment_date = ? AND appointment_time = ? AND status != ?",
				appt.AppointmentDate, appt.AppointmentTime, StatusCanceled).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}

		return tx.Create(appt).Error
	})
}
