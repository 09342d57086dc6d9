package models

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN string
}

// InitDB initializes database connection
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(config.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs the schema migrations for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Appointment{},
	)
}

// defaultAccounts are seeded on first start so the clinic staff can log in
// before any registration has happened.
var defaultAccounts = []struct {
	FullName string
	Email    string
	Password string
	Role     Role
}{
	{"Super Admin", "superadmin@clinic.com", "admin123", RoleSuperAdmin},
	{"Clinic Admin", "admin@clinic.com", "admin123", RoleAdmin},
}

// SeedDefaultUsers inserts the fixed super admin and admin accounts if they
// are absent. Safe to call on every start.
func SeedDefaultUsers(db *gorm.DB) error {
	for _, acc := range defaultAccounts {
		var existing User
		err := db.Where("email = ?", acc.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		user := User{
			FullName: acc.FullName,
			Email:    acc.Email,
			Role:     acc.Role,
		}
		if err := user.SetPassword(acc.Password); err != nil {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("created default user: %s", acc.Email)
	}
	return nil
}
