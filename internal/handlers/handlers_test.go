package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"school-clinic-server/internal/chatbot"
	"school-clinic-server/internal/config"
	"school-clinic-server/internal/models"
	"school-clinic-server/internal/routes"
	"school-clinic-server/internal/utils"
)

// stubGenerator is a deterministic stand-in for the text-generation model.
type stubGenerator struct {
	reply string
}

func (s *stubGenerator) Generate(context.Context, []chatbot.Turn, string) (string, error) {
	return s.reply, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:             "0",
		Origin:           "*",
		Environment:      "test",
		JWTSecret:        "test-secret",
		TokenExpiryDays:  7,
		ChatHistoryLimit: 10,
		StaticDir:        t.TempDir(),
	}
}

func setupServer(t *testing.T, llm chatbot.Generator) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := testConfig(t)
	if llm == nil {
		llm = &stubGenerator{reply: "ok"}
	}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg, llm)
	return router, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, name string, role models.Role) (models.User, string) {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s@test.com", uuid.NewString()[:8]),
		Role:     role,
	}
	require.NoError(t, user.SetPassword("testpass123"))
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(&user, cfg)
	require.NoError(t, err)
	return user, token
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func seedAppointment(t *testing.T, db *gorm.DB, studentID, date string, status models.AppointmentStatus) models.Appointment {
	t.Helper()
	appt := models.Appointment{
		StudentID:       studentID,
		AppointmentDate: date,
		AppointmentTime: "10:00:00",
		ServiceType:     models.ServiceConsultation,
		Urgency:         models.UrgencyNormal,
		Reason:          "test visit",
		Status:          status,
	}
	require.NoError(t, db.Create(&appt).Error)
	return appt
}

func TestHealth(t *testing.T) {
	router, _, _ := setupServer(t, nil)
	rec := doRequest(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	router, _, _ := setupServer(t, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/appointments"},
		{http.MethodPost, "/api/chat"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/profile"},
	}
	for _, p := range paths {
		rec := doRequest(t, router, p.method, p.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}
