package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/core/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateReaderSvc ---
type MockRateReader struct {
	mock.Mock
}

func (m *MockRateReader) VisibleRates(ctx context.Context) (map[string]dto.RateView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]dto.RateView), args.Error(1)
}

func (m *MockRateReader) AllRates(ctx context.Context) (map[string]dto.RateView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]dto.RateView), args.Error(1)
}

func (m *MockRateReader) RateHistory(ctx context.Context, code string) ([]domain.RateSnapshot, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateSnapshot), args.Error(1)
}

// --- Mock SocialPublisher ---
type MockPublisher struct {
	mock.Mock
	name string
}

func (m *MockPublisher) Name() string { return m.name }

func (m *MockPublisher) Publish(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

// --- Test Suite ---
type PublishServiceTestSuite struct {
	suite.Suite
	mockRates *MockRateReader
	mockAudit *MockAuditSvc
}

func (suite *PublishServiceTestSuite) SetupTest() {
	suite.mockRates = new(MockRateReader)
	suite.mockAudit = new(MockAuditSvc)
}

func sampleViews() map[string]dto.RateView {
	return map[string]dto.RateView{
		"USD": {Code: "USD", BuyRate: decimal.NewFromInt(15000), SellRate: decimal.NewFromInt(15100)},
		"EUR": {Code: "EUR", BuyRate: decimal.NewFromInt(16500), SellRate: decimal.NewFromInt(16600)},
	}
}

func (suite *PublishServiceTestSuite) TestPublishSummary_MixedOutcomes() {
	ctx := context.Background()
	ok := &MockPublisher{name: "telegram"}
	failing := &MockPublisher{name: "webhook"}

	suite.mockRates.On("VisibleRates", mock.Anything).Return(sampleViews(), nil).Once()
	ok.On("Publish", mock.Anything, mock.AnythingOfType("string")).Return("msg-42", nil).Once()
	failing.On("Publish", mock.Anything, mock.AnythingOfType("string")).Return("", errors.New("timeout")).Once()

	// One audit entry per platform, success and failure alike.
	suite.mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(e domain.ActivityLogEntry) bool {
		return e.Action == domain.ActionSocialPublish && e.Resource == domain.ResourceSocial
	})).Twice()

	svc := services.NewPublishService(suite.mockRates, suite.mockAudit, []portssvc.SocialPublisher{ok, failing})
	resp, err := svc.PublishSummary(ctx, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(resp.Results, 2)

	suite.True(resp.Results[0].Success)
	suite.Equal("telegram", resp.Results[0].Platform)
	suite.Equal("msg-42", resp.Results[0].MessageID)

	suite.False(resp.Results[1].Success)
	suite.Equal("webhook", resp.Results[1].Platform)
	suite.Equal("timeout", resp.Results[1].Error)

	suite.Contains(resp.Message, "USD  buy 15000 / sell 15100")
	suite.mockAudit.AssertExpectations(suite.T())
}

func TestPublishServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublishServiceTestSuite))
}

func TestFormatRateSummary(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	summary := services.FormatRateSummary(sampleViews(), at)

	require.Equal(t, "Exchange rates 1 Jun 2025 10:30\nEUR  buy 16500 / sell 16600\nUSD  buy 15000 / sell 15100", summary)
}

func TestPublishSummary_NoVisibleRates(t *testing.T) {
	rates := new(MockRateReader)
	audit := new(MockAuditSvc)
	rates.On("VisibleRates", mock.Anything).Return(map[string]dto.RateView{}, nil).Once()

	svc := services.NewPublishService(rates, audit, nil)
	_, err := svc.PublishSummary(context.Background(), "user-1")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestPublishSummary_ReadFailure(t *testing.T) {
	rates := new(MockRateReader)
	audit := new(MockAuditSvc)
	rates.On("VisibleRates", mock.Anything).Return(nil, errors.New("db down")).Once()

	svc := services.NewPublishService(rates, audit, nil)
	_, err := svc.PublishSummary(context.Background(), "user-1")

	assert.Error(t, err)
}
