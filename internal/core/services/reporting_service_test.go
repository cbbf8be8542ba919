package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finacct/ledgercore/internal/core/domain"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountBalances(ctx context.Context, asOf time.Time) ([]domain.AccountBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetOpenReceivables(ctx context.Context, asOf time.Time) ([]domain.ReceivableRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceivableRow), args.Error(1)
}

func (m *MockReportingRepository) GetOpenPayables(ctx context.Context, asOf time.Time) ([]domain.PayableRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayableRow), args.Error(1)
}

func (m *MockReportingRepository) GetBudgetActuals(ctx context.Context, from, to time.Time) ([]domain.BudgetRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetRow), args.Error(1)
}

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockReportingRepository
	mockRates *MockRateLookup
	service   portssvc.ReportingService
	ctx       context.Context
	asOf      time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.mockRates = new(MockRateLookup)
	suite.service = services.NewReportingService(suite.mockRepo, suite.mockRates, "USD")
	suite.ctx = context.Background()
	suite.asOf = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

// --- PayablesAging ---

func (suite *ReportingServiceTestSuite) TestPayablesAging_BucketsByDaysPastDue() {
	payables := []domain.PayableRow{
		{
			PayableID:    "pay-1",
			VendorName:   "Acme Supplies",
			DueDate:      time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), // ten days overdue
			Amount:       decimal.NewFromInt(200),
			Balance:      decimal.NewFromInt(150),
			CurrencyCode: "USD",
		},
		{
			PayableID:    "pay-2",
			VendorName:   "Globex Freight",
			DueDate:      time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), // not yet due
			Amount:       decimal.NewFromInt(75),
			Balance:      decimal.NewFromInt(75),
			CurrencyCode: "USD",
		},
	}
	suite.mockRepo.On("GetOpenPayables", suite.ctx, suite.asOf).Return(payables, nil)

	report, err := suite.service.PayablesAging(suite.ctx, suite.asOf, "USD")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), report.Items, 2)
	assert.Equal(suite.T(), "pay-1", report.Items[0].ItemID)
	assert.Equal(suite.T(), "Acme Supplies", report.Items[0].PartyName)
	assert.Equal(suite.T(), -10, report.Items[0].DaysPastDue)
	assert.Equal(suite.T(), domain.Bucket1To30, report.Items[0].Bucket)
	assert.Equal(suite.T(), domain.BucketCurrent, report.Items[1].Bucket)
	assert.True(suite.T(), report.TotalBalance.Equal(decimal.NewFromInt(225)), "total was %s", report.TotalBalance)

	assert.Len(suite.T(), report.Buckets, 2)
	assert.Equal(suite.T(), domain.BucketCurrent, report.Buckets[0].Bucket)
	assert.Equal(suite.T(), domain.Bucket1To30, report.Buckets[1].Bucket)
	assert.True(suite.T(), report.Buckets[1].TotalBalance.Equal(decimal.NewFromInt(150)))

	// Payables already in the report currency need no rate lookup.
	suite.mockRates.AssertNotCalled(suite.T(), "FindLatestRate")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestPayablesAging_ConvertsToReportCurrency() {
	payables := []domain.PayableRow{
		{
			PayableID:    "pay-eur",
			VendorName:   "Berlin Parts GmbH",
			DueDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:       decimal.NewFromInt(100),
			Balance:      decimal.NewFromInt(100),
			CurrencyCode: "EUR",
		},
	}
	suite.mockRepo.On("GetOpenPayables", suite.ctx, suite.asOf).Return(payables, nil)
	suite.mockRates.On("FindLatestRate", suite.ctx, "EUR", "USD", suite.asOf).Return(&domain.ExchangeRate{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromFloat(1.10),
		DateEffective:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}, nil)

	report, err := suite.service.PayablesAging(suite.ctx, suite.asOf, "USD")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), report.Items, 1)
	assert.True(suite.T(), report.Items[0].Balance.Equal(decimal.NewFromInt(110)), "balance was %s", report.Items[0].Balance)
	assert.Equal(suite.T(), "EUR", report.Items[0].CurrencyCode)
	assert.True(suite.T(), report.TotalBalance.Equal(decimal.NewFromInt(110)))
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestPayablesAging_EmptyWhenNothingOpen() {
	suite.mockRepo.On("GetOpenPayables", suite.ctx, suite.asOf).Return([]domain.PayableRow{}, nil)

	report, err := suite.service.PayablesAging(suite.ctx, suite.asOf, "")

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), report.Items)
	assert.Empty(suite.T(), report.Buckets)
	assert.True(suite.T(), report.TotalBalance.IsZero())
}

func (suite *ReportingServiceTestSuite) TestPayablesAging_RepositoryError() {
	suite.mockRepo.On("GetOpenPayables", suite.ctx, suite.asOf).Return(nil, errors.New("connection refused"))

	report, err := suite.service.PayablesAging(suite.ctx, suite.asOf, "USD")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), report)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
