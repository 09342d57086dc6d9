package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"school-clinic-server/internal/middleware"
	"school-clinic-server/internal/models"
	"school-clinic-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// AppointmentRecord is an appointment joined with its owner's identity, as
// returned by the list endpoint.
type AppointmentRecord struct {
	models.Appointment
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email,omitempty"`
}

// GetAppointments handles fetching appointments for the logged-in user.
// Students see only their own; clinic staff see all, joined with the owning
// student's identity.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Preload("Student").Order("appointment_date desc, appointment_time desc")

	var appointments []models.Appointment
	var err error
	if principal.Role.IsAdmin() {
		err = query.Find(&appointments).Error
	} else {
		err = query.Where("student_id = ?", principal.UserID).Find(&appointments).Error
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	records := make([]AppointmentRecord, len(appointments))
	for i, a := range appointments {
		records[i] = AppointmentRecord{Appointment: a, StudentName: a.Student.FullName}
		if principal.Role.IsAdmin() {
			records[i].StudentEmail = a.Student.Email
		}
	}

	utils.Success(c, "Appointments fetched successfully", records)
}

// CreateAppointmentRequest represents the request body for booking through
// the standard form.
type CreateAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	ServiceType     string `json:"service_type" binding:"required,oneof='Medical Consultation' 'Medical Clearance'"`
	Urgency         string `json:"urgency" binding:"required,oneof=Normal Urgent"`
	Reason          string `json:"reason" binding:"required"`
	BookingMode     string `json:"booking_mode" binding:"omitempty,oneof=standard ai_chatbot"`
}

// CreateAppointment handles booking a new appointment. Student-only; every
// appointment starts pending.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	mode := models.BookingMode(req.BookingMode)
	if mode == "" {
		mode = models.BookingStandard
	}

	appointment := models.Appointment{
		StudentID:       principal.UserID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		ServiceType:     models.ServiceType(req.ServiceType),
		Urgency:         models.Urgency(req.Urgency),
		Reason:          req.Reason,
		BookingMode:     mode,
		Status:          models.StatusPending,
	}

	switch err := models.BookSlot(h.DB, &appointment); err {
	case nil:
	case models.ErrSlotTaken:
		utils.Conflict(c, "That time slot is already taken")
		return
	default:
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully", gin.H{"id": appointment.ID})
}

// UpdateAppointmentRequest represents the request body for a status change.
type UpdateAppointmentRequest struct {
	Status    string `json:"status" binding:"required,oneof=pending approved completed canceled"`
	AdminNote string `json:"admin_note"`
}

// UpdateAppointment handles updating the status (and note) of an appointment.
// Staff only. Re-marking a completed appointment as completed is rejected
// with the distinct "already_scanned" signal the scanner UI keys on.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if models.AppointmentStatus(req.Status) == models.StatusCompleted &&
		appointment.Status == models.StatusCompleted {
		utils.BadRequest(c, "already_scanned")
		return
	}

	appointment.Status = models.AppointmentStatus(req.Status)
	appointment.AdminNote = req.AdminNote

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment updated successfully", nil)
}

// DeleteAppointment handles the delete-or-cancel rules: staff hard-delete
// unconditionally; the owning student soft-cancels a pending appointment and
// hard-deletes anything else; everyone else is rejected.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	switch {
	case principal.Role.IsAdmin():
		if err := h.DB.Delete(&appointment).Error; err != nil {
			utils.InternalServerError(c, "Failed to delete appointment: "+err.Error())
			return
		}
		utils.Success(c, "Appointment permanently deleted", nil)

	case principal.Role == models.RoleStudent:
		if appointment.StudentID != principal.UserID {
			utils.Forbidden(c, "Not authorized")
			return
		}
		if appointment.Status == models.StatusPending {
			if err := h.DB.Model(&appointment).Update("status", models.StatusCanceled).Error; err != nil {
				utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
				return
			}
			utils.Success(c, "Appointment canceled successfully", nil)
			return
		}
		if err := h.DB.Delete(&appointment).Error; err != nil {
			utils.InternalServerError(c, "Failed to delete appointment: "+err.Error())
			return
		}
		utils.Success(c, "Appointment record deleted successfully", nil)

	default:
		utils.Forbidden(c, "Action not allowed")
	}
}
