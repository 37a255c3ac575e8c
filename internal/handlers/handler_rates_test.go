package handlers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kursboard/kursboard/internal/adapters/realtime"
	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/kursboard/kursboard/internal/handlers"
	"github.com/kursboard/kursboard/internal/platform/config"
	"github.com/kursboard/kursboard/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-for-handler-tests"

// --- Mock RateSvcFacade ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) VisibleRates(ctx context.Context) (map[string]dto.RateView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]dto.RateView), args.Error(1)
}

func (m *MockRateService) AllRates(ctx context.Context) (map[string]dto.RateView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]dto.RateView), args.Error(1)
}

func (m *MockRateService) RateHistory(ctx context.Context, code string) ([]domain.RateSnapshot, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateSnapshot), args.Error(1)
}

func (m *MockRateService) UpdateRates(ctx context.Context, batch dto.BatchUpdateRequest, actorID string) (map[string]dto.RateView, error) {
	args := m.Called(ctx, batch, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]dto.RateView), args.Error(1)
}

func (m *MockRateService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actorID string) (*domain.CurrencyRate, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencyRate), args.Error(1)
}

func (m *MockRateService) SetVisibility(ctx context.Context, code string, visible bool, actorID string) error {
	args := m.Called(ctx, code, visible, actorID)
	return args.Error(0)
}

func (m *MockRateService) SetActive(ctx context.Context, code string, active bool, actorID string) error {
	args := m.Called(ctx, code, active, actorID)
	return args.Error(0)
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

// --- Mock AccessGateSvc ---
type MockAccessGate struct {
	mock.Mock
}

func (m *MockAccessGate) Authorize(ctx context.Context, userID string, capability domain.Capability) (bool, error) {
	args := m.Called(ctx, userID, capability)
	return args.Bool(0), args.Error(1)
}

// --- Mock AuditSvc ---
type MockAuditSvc struct {
	mock.Mock
}

func (m *MockAuditSvc) Record(ctx context.Context, entry domain.ActivityLogEntry) {
	m.Called(ctx, entry)
}

func (m *MockAuditSvc) ListRecent(ctx context.Context, limit, offset int) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLogEntry), args.Error(1)
}

func (m *MockAuditSvc) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock UserSvcFacade ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) EnsureAdminUser(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

// --- Mock AdviceSvcFacade ---
type MockAdviceService struct {
	mock.Mock
}

func (m *MockAdviceService) CreateAdvice(ctx context.Context, req dto.CreateAdviceRequest, actorID string) (*domain.AdvicePost, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdvicePost), args.Error(1)
}

func (m *MockAdviceService) UpdateAdvice(ctx context.Context, postID string, req dto.UpdateAdviceRequest, actorID string) (*domain.AdvicePost, error) {
	args := m.Called(ctx, postID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdvicePost), args.Error(1)
}

func (m *MockAdviceService) ListAdvice(ctx context.Context, onlyPublished bool) ([]domain.AdvicePost, error) {
	args := m.Called(ctx, onlyPublished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AdvicePost), args.Error(1)
}

// --- Mock PublishSvcFacade ---
type MockPublishService struct {
	mock.Mock
}

func (m *MockPublishService) PublishSummary(ctx context.Context, actorID string) (*dto.PublishResponse, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublishResponse), args.Error(1)
}

// --- Test Suite ---
type RateHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockRate    *MockRateService
	mockAccess  *MockAccessGate
	mockAudit   *MockAuditSvc
	mockUser    *MockUserService
	mockAdvice  *MockAdviceService
	mockPublish *MockPublishService
	userID      string
	token       string
}

func (suite *RateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockRate = new(MockRateService)
	suite.mockAccess = new(MockAccessGate)
	suite.mockAudit = new(MockAuditSvc)
	suite.mockUser = new(MockUserService)
	suite.mockAdvice = new(MockAdviceService)
	suite.mockPublish = new(MockPublishService)

	cfg := &config.Config{
		JWTSecret:         testJWTSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "kursboard",
	}

	container := &portssvc.ServiceContainer{
		Rate:    suite.mockRate,
		Audit:   suite.mockAudit,
		Access:  suite.mockAccess,
		User:    suite.mockUser,
		Advice:  suite.mockAdvice,
		Publish: suite.mockPublish,
	}

	suite.router = gin.New()
	hub := realtime.NewHub(slog.Default(), nil)
	handlers.RegisterRoutes(suite.router, cfg, container, hub)

	suite.userID = uuid.NewString()
	token, err := utils.GenerateJWT(suite.userID, testJWTSecret, time.Hour, "kursboard")
	suite.Require().NoError(err)
	suite.token = token
}

func (suite *RateHandlerTestSuite) doRequest(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RateHandlerTestSuite) allowCapability(capability domain.Capability) {
	suite.mockAccess.On("Authorize", mock.Anything, suite.userID, capability).Return(true, nil)
}

// --- Public read path ---

func (suite *RateHandlerTestSuite) TestGetPublicRates() {
	views := map[string]dto.RateView{
		"USD": {Code: "USD", BuyRate: decimal.NewFromInt(15000), SellRate: decimal.NewFromInt(15100), SpreadPercentage: "0.67"},
	}
	suite.mockRate.On("VisibleRates", mock.Anything).Return(views, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/rates", "", "")

	suite.Equal(http.StatusOK, w.Code)
	var got map[string]dto.RateView
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Contains(got, "USD")
	suite.Equal("0.67", got["USD"].SpreadPercentage)
}

// --- Admin batch update ---

func (suite *RateHandlerTestSuite) TestUpdateRates_Success() {
	suite.allowCapability(domain.CapabilityManageRates)
	views := map[string]dto.RateView{
		"USD": {Code: "USD", BuyRate: decimal.NewFromInt(15000), SellRate: decimal.NewFromInt(15100)},
	}
	suite.mockRate.On("UpdateRates", mock.Anything, mock.MatchedBy(func(b dto.BatchUpdateRequest) bool {
		pair, ok := b["USD"]
		return ok && pair.BuyRate.String() == "15000"
	}), suite.userID).Return(views, nil).Once()

	body := `{"USD":{"buyRate":15000,"sellRate":15100}}`
	w := suite.doRequest(http.MethodPost, "/api/v1/admin/rates", suite.token, body)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRate.AssertExpectations(suite.T())
}

func (suite *RateHandlerTestSuite) TestUpdateRates_ViolationsItemized() {
	suite.allowCapability(domain.CapabilityManageRates)
	verr := apperrors.NewValidationError([]apperrors.Violation{
		{Code: "EUR", Rule: apperrors.RuleInvertedSpread, Detail: "sellRate 16500 must exceed buyRate 16600"},
		{Code: "XYZ", Rule: apperrors.RuleUnknownCode, Detail: `currency code "XYZ" is not in the configured set`},
	})
	suite.mockRate.On("UpdateRates", mock.Anything, mock.Anything, suite.userID).Return(nil, verr).Once()

	body := `{"EUR":{"buyRate":16600,"sellRate":16500},"XYZ":{"buyRate":1,"sellRate":2}}`
	w := suite.doRequest(http.MethodPost, "/api/v1/admin/rates", suite.token, body)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Error      string                `json:"error"`
		Violations []apperrors.Violation `json:"violations"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Violations, 2)
	suite.Equal("EUR", resp.Violations[0].Code)
	suite.Equal(apperrors.RuleInvertedSpread, resp.Violations[0].Rule)
}

func (suite *RateHandlerTestSuite) TestUpdateRates_PersistenceFailure() {
	suite.allowCapability(domain.CapabilityManageRates)
	suite.mockRate.On("UpdateRates", mock.Anything, mock.Anything, suite.userID).Return(nil, apperrors.ErrPersistence).Once()

	body := `{"USD":{"buyRate":15000,"sellRate":15100}}`
	w := suite.doRequest(http.MethodPost, "/api/v1/admin/rates", suite.token, body)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *RateHandlerTestSuite) TestUpdateRates_NoToken() {
	w := suite.doRequest(http.MethodPost, "/api/v1/admin/rates", "", `{"USD":{"buyRate":1,"sellRate":2}}`)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRate.AssertNotCalled(suite.T(), "UpdateRates", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateHandlerTestSuite) TestUpdateRates_CapabilityDenied() {
	suite.mockAccess.On("Authorize", mock.Anything, suite.userID, domain.CapabilityManageRates).Return(false, nil).Once()
	suite.mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(e domain.ActivityLogEntry) bool {
		return e.Action == domain.ActionAccessDenied && e.Outcome == domain.OutcomeFailure
	})).Once()

	body := `{"USD":{"buyRate":15000,"sellRate":15100}}`
	w := suite.doRequest(http.MethodPost, "/api/v1/admin/rates", suite.token, body)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockRate.AssertNotCalled(suite.T(), "UpdateRates", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAudit.AssertExpectations(suite.T())
}

// --- Toggles ---

func (suite *RateHandlerTestSuite) TestSetVisibility() {
	suite.allowCapability(domain.CapabilityManageRates)
	suite.mockRate.On("SetVisibility", mock.Anything, "USD", false, suite.userID).Return(nil).Once()

	w := suite.doRequest(http.MethodPatch, "/api/v1/admin/rates/USD/visibility", suite.token, `{"enabled":false}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRate.AssertExpectations(suite.T())
}

func (suite *RateHandlerTestSuite) TestSetActive_NotFound() {
	suite.allowCapability(domain.CapabilityManageRates)
	suite.mockRate.On("SetActive", mock.Anything, "ZZZ", false, suite.userID).Return(apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPatch, "/api/v1/admin/rates/ZZZ/active", suite.token, `{"enabled":false}`)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RateHandlerTestSuite) TestToggle_MissingEnabledField() {
	suite.allowCapability(domain.CapabilityManageRates)

	w := suite.doRequest(http.MethodPatch, "/api/v1/admin/rates/USD/visibility", suite.token, `{}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRate.AssertNotCalled(suite.T(), "SetVisibility", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Create currency ---

func (suite *RateHandlerTestSuite) TestCreateCurrency_InvalidCodeRejectedByBinding() {
	suite.allowCapability(domain.CapabilityManageRates)

	w := suite.doRequest(http.MethodPost, "/api/v1/admin/currencies", suite.token, `{"code":"usd!","displayName":"Bad"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRate.AssertNotCalled(suite.T(), "CreateCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateHandlerTestSuite) TestCreateCurrency_Duplicate() {
	suite.allowCapability(domain.CapabilityManageRates)
	suite.mockRate.On("CreateCurrency", mock.Anything, mock.Anything, suite.userID).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/admin/currencies", suite.token, `{"code":"USD","displayName":"US Dollar"}`)

	suite.Equal(http.StatusConflict, w.Code)
}

func TestRateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RateHandlerTestSuite))
}
