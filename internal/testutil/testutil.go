package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/auth"
	"github.com/reconova/reconova/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A unique shared-cache DSN keeps every pooled connection pointed at
	// the same in-memory database; a plain ":memory:" DSN gives each new
	// connection its own empty database.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.ReconTask{},
		&models.Tool{},
		&models.ScanResult{},
		&models.AIResult{},
		&models.ScheduledScan{},
		&models.ScheduledTool{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestPlan creates a plan with the given daily scan limit
func CreateTestPlan(t *testing.T, db *gorm.DB, maxScansPerDay, durationDays int) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:           "test-plan-" + uuid.New().String()[:8],
		DurationDays:   durationDays,
		MaxScansPerDay: maxScansPerDay,
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}

	return plan
}

// CreateTestUser creates an active user, subscribed to plan when non-nil
func CreateTestUser(t *testing.T, db *gorm.DB, plan *models.Plan) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		Role:         "member",
		IsActive:     true,
	}

	if plan != nil {
		now := time.Now().UTC()
		user.PlanID = &plan.ID
		user.PlanStartedAt = now.Unix()
		user.IsPlanActive = true
		user.CanGenerateReport = plan.CanGenerateReport
		if plan.Expires() {
			user.PlanEndsAt = now.AddDate(0, 0, plan.DurationDays).Unix()
		}
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	user.Plan = plan
	return user
}

// CreateTestTool registers a catalog tool
func CreateTestTool(t *testing.T, db *gorm.DB, name string) *models.Tool {
	t.Helper()

	tool := &models.Tool{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:     name,
		Category: "test",
	}

	if err := db.Create(tool).Error; err != nil {
		t.Fatalf("failed to create test tool: %v", err)
	}

	return tool
}

// CreateTestScan creates a scan record in the given status
func CreateTestScan(t *testing.T, db *gorm.DB, userID uuid.UUID, status models.ScanStatus) *models.ScanResult {
	t.Helper()

	rec := &models.ScanResult{
		Base: models.Base{
			ID: uuid.New(),
		},
		ScanID: uuid.NewString(),
		UserID: userID,
		Target: "example.com",
		Tool:   "nmap",
		Status: status,
	}

	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test scan: %v", err)
	}

	return rec
}

// CreateTestSchedule creates an enabled schedule firing at timeOfDay
// (minutes since midnight UTC) with the given tool names
func CreateTestSchedule(t *testing.T, db *gorm.DB, userID uuid.UUID, timeOfDay int, toolNames ...string) *models.ScheduledScan {
	t.Helper()

	tools := make([]models.ScheduledTool, 0, len(toolNames))
	for _, name := range toolNames {
		tools = append(tools, models.ScheduledTool{
			Base:     models.Base{ID: uuid.New()},
			ToolName: name,
		})
	}

	schedule := &models.ScheduledScan{
		Base: models.Base{
			ID: uuid.New(),
		},
		UserID:    userID,
		Name:      "Test Schedule",
		Target:    "example.com",
		TimeOfDay: timeOfDay,
		IsEnabled: true,
		Tools:     tools,
	}

	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("failed to create test schedule: %v", err)
	}

	return schedule
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}
