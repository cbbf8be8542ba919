package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/domain"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/core/services"
	"github.com/finacct/ledgercore/internal/dto"
)

// --- Mock AssetRepository ---
type MockAssetRepository struct {
	mock.Mock
}

var _ portsrepo.AssetRepositoryFacade = (*MockAssetRepository)(nil)

func (m *MockAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedAsset), args.Error(1)
}

func (m *MockAssetRepository) ListAssets(ctx context.Context, status *domain.AssetStatus, limit int, offset int) ([]domain.FixedAsset, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FixedAsset), args.Error(1)
}

func (m *MockAssetRepository) SaveAsset(ctx context.Context, asset domain.FixedAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) UpdateAsset(ctx context.Context, asset domain.FixedAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) FindDepreciationByID(ctx context.Context, depreciationID string) (*domain.DepreciationRecord, error) {
	args := m.Called(ctx, depreciationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationRecord), args.Error(1)
}

func (m *MockAssetRepository) FindDepreciationsByAssetID(ctx context.Context, assetID string) ([]domain.DepreciationRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepreciationRecord), args.Error(1)
}

func (m *MockAssetRepository) ExistsForAssetPeriod(ctx context.Context, assetID string, periodStart, periodEnd time.Time) (bool, error) {
	args := m.Called(ctx, assetID, periodStart, periodEnd)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) SumRecordedBefore(ctx context.Context, assetID string, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, assetID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAssetRepository) SaveDepreciation(ctx context.Context, record domain.DepreciationRecord, asset domain.FixedAsset) error {
	args := m.Called(ctx, record, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) LinkJournalEntry(ctx context.Context, depreciationID string, entryID string) error {
	args := m.Called(ctx, depreciationID, entryID)
	return args.Error(0)
}

func (m *MockAssetRepository) DeleteDepreciation(ctx context.Context, depreciationID string, asset domain.FixedAsset) error {
	args := m.Called(ctx, depreciationID, asset)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AssetServiceTestSuite struct {
	suite.Suite
	mockAssetRepo *MockAssetRepository
	mockRates     *MockRateLookup
	service       portssvc.AssetSvcFacade
	asset         domain.FixedAsset
	userID        string
	periodStart   time.Time
	periodEnd     time.Time
}

func (suite *AssetServiceTestSuite) SetupTest() {
	suite.mockAssetRepo = new(MockAssetRepository)
	suite.mockRates = new(MockRateLookup)
	suite.service = services.NewAssetService(suite.mockAssetRepo, suite.mockRates, nil, services.DepreciationAccounts{}, nil, "USD")

	suite.userID = uuid.NewString()
	suite.periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	// 12000 cost, 0 salvage, 10 years: 100 per month straight-line.
	suite.asset = domain.FixedAsset{
		AssetID:         uuid.NewString(),
		Name:            "Delivery Truck",
		AcquisitionDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AcquisitionCost: decimal.NewFromInt(12000),
		SalvageValue:    decimal.Zero,
		UsefulLifeYears: 10,
		Method:          domain.StraightLine,
		CurrencyCode:    "USD",
		CurrentValue:    decimal.NewFromInt(12000),
		Status:          domain.AssetActive,
	}
}

// --- CreateAsset ---

func (suite *AssetServiceTestSuite) TestCreateAsset_Success() {
	ctx := context.Background()
	req := dto.CreateAssetRequest{
		Name:            "Office Laptop",
		AcquisitionDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		AcquisitionCost: decimal.NewFromInt(2400),
		SalvageValue:    decimal.NewFromInt(400),
		UsefulLifeYears: 4,
		Method:          "STRAIGHT_LINE",
		CurrencyCode:    "eur",
	}

	suite.mockAssetRepo.On("SaveAsset", mock.Anything, mock.AnythingOfType("domain.FixedAsset")).Return(nil)

	asset, err := suite.service.CreateAsset(ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.AssetActive, asset.Status)
	assert.Equal(suite.T(), "EUR", asset.CurrencyCode)
	assert.True(suite.T(), asset.CurrentValue.Equal(req.AcquisitionCost))
	suite.mockAssetRepo.AssertExpectations(suite.T())
}

func (suite *AssetServiceTestSuite) TestCreateAsset_Fails_SalvageAboveCost() {
	ctx := context.Background()
	req := dto.CreateAssetRequest{
		Name:            "Bad Asset",
		AcquisitionDate: time.Now(),
		AcquisitionCost: decimal.NewFromInt(100),
		SalvageValue:    decimal.NewFromInt(200),
		UsefulLifeYears: 5,
		Method:          "STRAIGHT_LINE",
		CurrencyCode:    "USD",
	}

	_, err := suite.service.CreateAsset(ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockAssetRepo.AssertNotCalled(suite.T(), "SaveAsset", mock.Anything, mock.Anything)
}

func (suite *AssetServiceTestSuite) TestCreateAsset_Fails_DecliningWithoutRate() {
	ctx := context.Background()
	req := dto.CreateAssetRequest{
		Name:            "Machine",
		AcquisitionDate: time.Now(),
		AcquisitionCost: decimal.NewFromInt(5000),
		UsefulLifeYears: 5,
		Method:          "DECLINING_BALANCE",
		CurrencyCode:    "USD",
	}

	_, err := suite.service.CreateAsset(ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

// --- RunDepreciation ---

func (suite *AssetServiceTestSuite) TestRunDepreciation_Success_StraightLine() {
	ctx := context.Background()
	req := dto.RunDepreciationRequest{PeriodStart: suite.periodStart, PeriodEnd: suite.periodEnd}

	suite.mockAssetRepo.On("FindAssetByID", mock.Anything, suite.asset.AssetID).Return(&suite.asset, nil)
	suite.mockAssetRepo.On("ExistsForAssetPeriod", mock.Anything, suite.asset.AssetID, suite.periodStart, suite.periodEnd).Return(false, nil)
	suite.mockAssetRepo.On("SumRecordedBefore", mock.Anything, suite.asset.AssetID, suite.periodStart).Return(decimal.NewFromInt(700), nil)

	var savedAsset domain.FixedAsset
	suite.mockAssetRepo.On("SaveDepreciation", mock.Anything, mock.AnythingOfType("domain.DepreciationRecord"), mock.AnythingOfType("domain.FixedAsset")).
		Run(func(args mock.Arguments) {
			savedAsset = args.Get(2).(domain.FixedAsset)
		}).Return(nil)

	record, err := suite.service.RunDepreciation(ctx, suite.asset.AssetID, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), record.Amount.Equal(decimal.NewFromInt(100)), "amount was %s", record.Amount)
	assert.True(suite.T(), record.Accumulated.Equal(decimal.NewFromInt(800)))
	assert.True(suite.T(), record.RemainingValue.Equal(decimal.NewFromInt(11200)))
	assert.Nil(suite.T(), record.JournalEntryID)
	// The asset's carrying value follows the record.
	assert.True(suite.T(), savedAsset.CurrentValue.Equal(decimal.NewFromInt(11200)))
	suite.mockAssetRepo.AssertExpectations(suite.T())
}

func (suite *AssetServiceTestSuite) TestRunDepreciation_Fails_DuplicatePeriod() {
	ctx := context.Background()
	req := dto.RunDepreciationRequest{PeriodStart: suite.periodStart, PeriodEnd: suite.periodEnd}

	suite.mockAssetRepo.On("FindAssetByID", mock.Anything, suite.asset.AssetID).Return(&suite.asset, nil)
	suite.mockAssetRepo.On("ExistsForAssetPeriod", mock.Anything, suite.asset.AssetID, suite.periodStart, suite.periodEnd).Return(true, nil)

	_, err := suite.service.RunDepreciation(ctx, suite.asset.AssetID, req, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrPeriodAlreadyDepreciated)
	suite.mockAssetRepo.AssertNotCalled(suite.T(), "SaveDepreciation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AssetServiceTestSuite) TestRunDepreciation_Fails_DisposedAsset() {
	ctx := context.Background()
	disposed := suite.asset
	disposed.Status = domain.AssetDisposed
	req := dto.RunDepreciationRequest{PeriodStart: suite.periodStart, PeriodEnd: suite.periodEnd}

	suite.mockAssetRepo.On("FindAssetByID", mock.Anything, disposed.AssetID).Return(&disposed, nil)

	_, err := suite.service.RunDepreciation(ctx, disposed.AssetID, req, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrAssetNotActive)
	suite.mockAssetRepo.AssertNotCalled(suite.T(), "SaveDepreciation", mock.Anything, mock.Anything, mock.Anything)
}

// --- RunBatchDepreciation ---

func (suite *AssetServiceTestSuite) TestRunBatchDepreciation_CollectsPerAssetErrors() {
	ctx := context.Background()
	req := dto.BatchDepreciationRequest{PeriodStart: suite.periodStart, PeriodEnd: suite.periodEnd}

	good := suite.asset
	bad := suite.asset
	bad.AssetID = uuid.NewString()
	bad.Name = "Already Depreciated"
	active := domain.AssetActive

	suite.mockAssetRepo.On("ListAssets", mock.Anything, &active, 200, 0).Return([]domain.FixedAsset{good, bad}, nil)

	suite.mockAssetRepo.On("ExistsForAssetPeriod", mock.Anything, good.AssetID, suite.periodStart, suite.periodEnd).Return(false, nil)
	suite.mockAssetRepo.On("SumRecordedBefore", mock.Anything, good.AssetID, suite.periodStart).Return(decimal.Zero, nil)
	suite.mockAssetRepo.On("SaveDepreciation", mock.Anything, mock.AnythingOfType("domain.DepreciationRecord"), mock.AnythingOfType("domain.FixedAsset")).Return(nil)

	// The second asset already has a record for the period; the batch
	// reports it and carries on.
	suite.mockAssetRepo.On("ExistsForAssetPeriod", mock.Anything, bad.AssetID, suite.periodStart, suite.periodEnd).Return(true, nil)

	resp, err := suite.service.RunBatchDepreciation(ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), resp.Records, 1)
	assert.Equal(suite.T(), good.AssetID, resp.Records[0].AssetID)
	assert.Len(suite.T(), resp.Errors, 1)
	assert.Equal(suite.T(), bad.AssetID, resp.Errors[0].AssetID)
	assert.Contains(suite.T(), resp.Errors[0].Error, "already covers this period")
	suite.mockAssetRepo.AssertExpectations(suite.T())
}

// --- DeleteDepreciation ---

func (suite *AssetServiceTestSuite) TestDeleteDepreciation_RestoresCurrentValue() {
	ctx := context.Background()
	record := domain.DepreciationRecord{
		DepreciationID: uuid.NewString(),
		AssetID:        suite.asset.AssetID,
		Amount:         decimal.NewFromInt(100),
		CurrencyCode:   "USD",
	}
	depreciated := suite.asset
	depreciated.CurrentValue = decimal.NewFromInt(11200)

	suite.mockAssetRepo.On("FindDepreciationByID", mock.Anything, record.DepreciationID).Return(&record, nil)
	suite.mockAssetRepo.On("FindAssetByID", mock.Anything, suite.asset.AssetID).Return(&depreciated, nil)

	var restoredAsset domain.FixedAsset
	suite.mockAssetRepo.On("DeleteDepreciation", mock.Anything, record.DepreciationID, mock.AnythingOfType("domain.FixedAsset")).
		Run(func(args mock.Arguments) {
			restoredAsset = args.Get(2).(domain.FixedAsset)
		}).Return(nil)

	err := suite.service.DeleteDepreciation(ctx, record.DepreciationID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), restoredAsset.CurrentValue.Equal(decimal.NewFromInt(11300)))
	suite.mockAssetRepo.AssertExpectations(suite.T())
}

func (suite *AssetServiceTestSuite) TestDeleteDepreciation_Fails_WhenJournaled() {
	ctx := context.Background()
	entryID := uuid.NewString()
	record := domain.DepreciationRecord{
		DepreciationID: uuid.NewString(),
		AssetID:        suite.asset.AssetID,
		Amount:         decimal.NewFromInt(100),
		JournalEntryID: &entryID,
	}

	suite.mockAssetRepo.On("FindDepreciationByID", mock.Anything, record.DepreciationID).Return(&record, nil)

	err := suite.service.DeleteDepreciation(ctx, record.DepreciationID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrDepreciationJournaled)
	suite.mockAssetRepo.AssertNotCalled(suite.T(), "DeleteDepreciation", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}
