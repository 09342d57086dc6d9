package models_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"school-clinic-server/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func TestSeedDefaultUsersIdempotent(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, models.SeedDefaultUsers(db))
	require.NoError(t, models.SeedDefaultUsers(db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var super models.User
	require.NoError(t, db.Where("email = ?", "superadmin@clinic.com").First(&super).Error)
	assert.Equal(t, models.RoleSuperAdmin, super.Role)
	assert.True(t, super.CheckPassword("admin123"))
	assert.NotEqual(t, "admin123", super.Password)
}

func TestPasswordHashing(t *testing.T) {
	var u models.User
	require.NoError(t, u.SetPassword("secret-password"))
	assert.NotEqual(t, "secret-password", u.Password)
	assert.True(t, u.CheckPassword("secret-password"))
	assert.False(t, u.CheckPassword("wrong-password"))
}

func TestBookSlot(t *testing.T) {
	db := setupDB(t)

	first := models.Appointment{
		StudentID:       "s1",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "14:00:00",
		Reason:          "checkup",
		Status:          models.StatusPending,
	}
	require.NoError(t, models.BookSlot(db, &first))
	assert.NotEmpty(t, first.ID)

	// the same slot is refused for anyone while the first booking is live
	second := models.Appointment{
		StudentID:       "s2",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "14:00:00",
		Reason:          "clearance",
		Status:          models.StatusPending,
	}
	err := models.BookSlot(db, &second)
	assert.ErrorIs(t, err, models.ErrSlotTaken)

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// a different time on the same day is fine
	second.AppointmentTime = "15:00:00"
	require.NoError(t, models.BookSlot(db, &second))
}

func TestBookSlotReusesCanceledSlot(t *testing.T) {
	db := setupDB(t)

	canceled := models.Appointment{
		StudentID:       "s1",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "14:00:00",
		Reason:          "old",
		Status:          models.StatusCanceled,
	}
	require.NoError(t, db.Create(&canceled).Error)

	appt := models.Appointment{
		StudentID:       "s2",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "14:00:00",
		Reason:          "new visit",
		Status:          models.StatusPending,
	}
	require.NoError(t, models.BookSlot(db, &appt))
}
