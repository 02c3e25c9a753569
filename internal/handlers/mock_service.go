package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockRules struct {
	rules     []models.Rule
	rule      models.Rule
	err       error
	lastID    string
	lastInput models.Rule
	calls     int
}

func (m *mockRules) ListRules(ctx context.Context) ([]models.Rule, error) {
	m.calls++
	return m.rules, m.err
}
func (m *mockRules) GetRule(ctx context.Context, id string) (models.Rule, error) {
	m.calls++
	m.lastID = id
	return m.rule, m.err
}
func (m *mockRules) CreateRule(ctx context.Context, r models.Rule) (models.Rule, error) {
	m.calls++
	m.lastInput = r
	return m.rule, m.err
}
func (m *mockRules) UpdateRule(ctx context.Context, id string, r models.Rule) (models.Rule, error) {
	m.calls++
	m.lastID = id
	m.lastInput = r
	return m.rule, m.err
}
func (m *mockRules) DeleteRule(ctx context.Context, id string) error {
	m.calls++
	m.lastID = id
	return m.err
}

type mockHold struct {
	hold       *models.Hold
	setResp    models.Hold
	err        error
	lastParams service.HoldParams
	setCalls   int
	clearCalls int
}

func (m *mockHold) GetHold(ctx context.Context) (*models.Hold, error) {
	return m.hold, m.err
}
func (m *mockHold) SetHold(ctx context.Context, p service.HoldParams) (models.Hold, error) {
	m.setCalls++
	m.lastParams = p
	return m.setResp, m.err
}
func (m *mockHold) ClearHold(ctx context.Context) error {
	m.clearCalls++
	return m.err
}

type mockSettings struct {
	settings  models.Settings
	err       error
	lastInput models.Settings
	updates   int
}

func (m *mockSettings) GetSettings(ctx context.Context) (models.Settings, error) {
	return m.settings, m.err
}
func (m *mockSettings) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	m.updates++
	m.lastInput = s
	return s, m.err
}

type mockTarget struct {
	mu      sync.Mutex
	view    models.TargetView
	err     error
	lastNow time.Time
	calls   int
}

func (m *mockTarget) Current(ctx context.Context, now time.Time) (models.TargetView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastNow = now
	m.calls++
	return m.view, m.err
}

func (m *mockTarget) set(v models.TargetView, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view, m.err = v, err
}

func (m *mockTarget) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockMonitoring struct {
	state models.DeviceState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.DeviceState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp      []models.DeviceEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DeviceEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
