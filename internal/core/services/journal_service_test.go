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
	"github.com/finacct/ledgercore/internal/core/ledger"
	portsrepo "github.com/finacct/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/core/services"
	"github.com/finacct/ledgercore/internal/dto"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeReversals)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, entryDate time.Time) (string, error) {
	args := m.Called(ctx, entryDate)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, fromStatus, toStatus domain.JournalStatus, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, fromStatus, toStatus, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, original, reversal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var lines []domain.JournalLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.JournalLine)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return lines, token, args.Error(2)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	args := m.Called(ctx, accountID, requestingUserID)
	return args.Error(0)
}

// --- Mock rate lookup ---
type MockRateLookup struct {
	mock.Mock
}

func (m *MockRateLookup) FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, maxDate time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, maxDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	mockRates       *MockRateLookup
	service         portssvc.JournalSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	payableAccount  domain.Account
	userID          string
	entryDate       time.Time
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockRates = new(MockRateLookup)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, suite.mockRates, nil, "USD")

	suite.userID = uuid.NewString()
	suite.entryDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	suite.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Sales Revenue",
		AccountType:  domain.Revenue,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.payableAccount = domain.Account{
		AccountID:    uuid.NewString(),
		Name:         "Accounts Payable",
		AccountType:  domain.Liability,
		CurrencyCode: "EUR",
		IsActive:     true,
	}
}

func (suite *JournalServiceTestSuite) expectActiveAccounts(accounts ...*domain.Account) {
	for _, acc := range accounts {
		suite.mockAccountSvc.On("GetAccountByID", mock.Anything, acc.AccountID).Return(acc, nil)
	}
}

// --- CreateEntry ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success_BaseCurrencyOnly() {
	ctx := context.Background()
	suite.expectActiveAccounts(&suite.cashAccount, &suite.revenueAccount)

	req := dto.CreateJournalEntryRequest{
		EntryDate:   suite.entryDate,
		Description: "Cash sale",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(250), CurrencyCode: "USD"},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(250), CurrencyCode: "USD"},
		},
	}

	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, suite.entryDate).Return("JE-2026-0042", nil)
	suite.mockJournalRepo.On("SaveEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil)

	entry, lines, err := suite.service.CreateEntry(ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), entry)
	assert.Equal(suite.T(), domain.Draft, entry.Status)
	assert.Equal(suite.T(), "JE-2026-0042", entry.EntryNumber)
	assert.Equal(suite.T(), "USD", entry.BaseCurrencyCode)
	assert.Equal(suite.T(), suite.userID, entry.CreatedBy)
	assert.Len(suite.T(), lines, 2)
	assert.True(suite.T(), lines[0].DebitAmount.Equal(decimal.NewFromInt(250)))
	assert.True(suite.T(), lines[1].CreditAmount.Equal(decimal.NewFromInt(250)))
	assert.Nil(suite.T(), lines[0].ExchangeRate)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Success_ConvertsForeignLine() {
	ctx := context.Background()
	suite.expectActiveAccounts(&suite.cashAccount, &suite.payableAccount)

	// EUR 100 at 1.25 balances against USD 125.
	eurAmount := decimal.NewFromInt(100)
	req := dto.CreateJournalEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(125), CurrencyCode: "USD"},
			{AccountID: suite.payableAccount.AccountID, CreditAmount: eurAmount, CurrencyCode: "EUR", ForeignAmount: &eurAmount},
		},
	}

	suite.mockRates.On("FindLatestRate", mock.Anything, "EUR", "USD", suite.entryDate).Return(&domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromFloat(1.25),
		DateEffective:    suite.entryDate.AddDate(0, 0, -3),
	}, nil)
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, suite.entryDate).Return("JE-2026-0043", nil)
	suite.mockJournalRepo.On("SaveEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil)

	_, lines, err := suite.service.CreateEntry(ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), lines, 2)
	// The foreign line stores the converted base amount; the entered
	// amount and the applied rate ride along.
	assert.True(suite.T(), lines[1].CreditAmount.Equal(decimal.NewFromInt(125)))
	if assert.NotNil(suite.T(), lines[1].ForeignAmount) {
		assert.True(suite.T(), lines[1].ForeignAmount.Equal(eurAmount))
	}
	if assert.NotNil(suite.T(), lines[1].ExchangeRate) {
		assert.True(suite.T(), lines[1].ExchangeRate.Equal(decimal.NewFromFloat(1.25)))
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Fails_Unbalanced() {
	ctx := context.Background()
	suite.expectActiveAccounts(&suite.cashAccount, &suite.revenueAccount)

	req := dto.CreateJournalEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(250), CurrencyCode: "USD"},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(240), CurrencyCode: "USD"},
		},
	}

	_, _, err := suite.service.CreateEntry(ctx, req, suite.userID)

	assert.Error(suite.T(), err)
	var unbalanced *ledger.UnbalancedError
	assert.ErrorAs(suite.T(), err, &unbalanced)
	assert.True(suite.T(), unbalanced.Difference.Equal(decimal.NewFromInt(10)))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Fails_MissingRate() {
	ctx := context.Background()
	suite.expectActiveAccounts(&suite.cashAccount, &suite.payableAccount)

	eurAmount := decimal.NewFromInt(100)
	req := dto.CreateJournalEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(125), CurrencyCode: "USD"},
			{AccountID: suite.payableAccount.AccountID, CreditAmount: eurAmount, CurrencyCode: "EUR", ForeignAmount: &eurAmount},
		},
	}

	suite.mockRates.On("FindLatestRate", mock.Anything, "EUR", "USD", suite.entryDate).Return(nil, apperrors.ErrNotFound)
	suite.mockRates.On("FindLatestRate", mock.Anything, "USD", "EUR", suite.entryDate).Return(nil, apperrors.ErrNotFound)

	_, _, err := suite.service.CreateEntry(ctx, req, suite.userID)

	assert.Error(suite.T(), err)
	var missing *ledger.MissingExchangeRateError
	assert.ErrorAs(suite.T(), err, &missing)
	assert.Equal(suite.T(), "EUR", missing.CurrencyCode)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Fails_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.cashAccount
	inactive.IsActive = false
	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, inactive.AccountID).Return(&inactive, nil)

	req := dto.CreateJournalEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: inactive.AccountID, DebitAmount: decimal.NewFromInt(50), CurrencyCode: "USD"},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(50), CurrencyCode: "USD"},
		},
	}

	_, _, err := suite.service.CreateEntry(ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrAccountInactive)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

// --- PostEntry ---

func (suite *JournalServiceTestSuite) draftEntryWithLines() (*domain.JournalEntry, []domain.JournalLine) {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:          entryID,
		EntryNumber:      "JE-2026-0010",
		EntryDate:        suite.entryDate,
		BaseCurrencyCode: "USD",
		Status:           domain.Draft,
	}
	lines := []domain.JournalLine{
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    suite.cashAccount.AccountID,
			DebitAmount:  decimal.NewFromInt(100),
			CurrencyCode: "USD",
		},
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    suite.revenueAccount.AccountID,
			CreditAmount: decimal.NewFromInt(100),
			CurrencyCode: "USD",
		},
	}
	return entry, lines
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry, lines := suite.draftEntryWithLines()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entry.EntryID).Return(lines, nil)
	suite.mockJournalRepo.On("UpdateEntryStatus", mock.Anything, entry.EntryID, domain.Draft, domain.Posted, suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.Posted, posted.Status)
	assert.Equal(suite.T(), suite.userID, posted.LastUpdatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_Fails_NotDraft() {
	ctx := context.Background()
	entry, _ := suite.draftEntryWithLines()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrEntryNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Fails_ConcurrentStatusChange() {
	ctx := context.Background()
	entry, lines := suite.draftEntryWithLines()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entry.EntryID).Return(lines, nil)
	suite.mockJournalRepo.On("UpdateEntryStatus", mock.Anything, entry.EntryID, domain.Draft, domain.Posted, suite.userID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict)

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrEntryNotDraft)
}

// --- ReverseEntry ---

func (suite *JournalServiceTestSuite) TestReverseEntry_MirrorsLines() {
	ctx := context.Background()
	entry, lines := suite.draftEntryWithLines()
	entry.Status = domain.Posted

	// A posted foreign line keeps its base amounts and stored rate; the
	// reversal must reuse them untouched.
	eurAmount := decimal.NewFromInt(80)
	storedRate := decimal.NewFromFloat(1.25)
	lines[1].ForeignAmount = &eurAmount
	lines[1].ExchangeRate = &storedRate
	lines[1].CurrencyCode = "EUR"

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entry.EntryID).Return(lines, nil)
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.AnythingOfType("time.Time")).Return("JE-2026-0011", nil)

	var savedReversal domain.JournalEntry
	var savedLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveReversal", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			savedReversal = args.Get(2).(domain.JournalEntry)
			savedLines = args.Get(3).([]domain.JournalLine)
		}).Return(nil)

	reversal, err := suite.service.ReverseEntry(ctx, entry.EntryID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.Posted, reversal.Status)
	if assert.NotNil(suite.T(), reversal.OriginalEntryID) {
		assert.Equal(suite.T(), entry.EntryID, *reversal.OriginalEntryID)
	}
	assert.Equal(suite.T(), savedReversal.EntryID, reversal.EntryID)
	assert.Len(suite.T(), savedLines, 2)
	// Debits and credits swap; amounts and rates are the originals.
	assert.True(suite.T(), savedLines[0].CreditAmount.Equal(lines[0].DebitAmount))
	assert.True(suite.T(), savedLines[1].DebitAmount.Equal(lines[1].CreditAmount))
	if assert.NotNil(suite.T(), savedLines[1].ExchangeRate) {
		assert.True(suite.T(), savedLines[1].ExchangeRate.Equal(storedRate))
	}
	suite.mockRates.AssertNotCalled(suite.T(), "FindLatestRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Fails_NotPosted() {
	ctx := context.Background()
	entry, _ := suite.draftEntryWithLines()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)

	_, err := suite.service.ReverseEntry(ctx, entry.EntryID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrEntryNotPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Fails_AlreadyReversed() {
	ctx := context.Background()
	entry, _ := suite.draftEntryWithLines()
	entry.Status = domain.Posted
	reversingID := uuid.NewString()
	entry.ReversingEntryID = &reversingID

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)

	_, err := suite.service.ReverseEntry(ctx, entry.EntryID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrEntryAlreadyReversed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- GetEntryByID / ListEntries ---

func (suite *JournalServiceTestSuite) TestGetEntryByID_Success() {
	ctx := context.Background()
	entry, lines := suite.draftEntryWithLines()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entry.EntryID).Return(lines, nil)

	got, gotLines, err := suite.service.GetEntryByID(ctx, entry.EntryID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), entry.EntryID, got.EntryID)
	assert.Len(suite.T(), gotLines, 2)
}

func (suite *JournalServiceTestSuite) TestListEntries_ClampsLimit() {
	ctx := context.Background()
	entry, _ := suite.draftEntryWithLines()

	suite.mockJournalRepo.On("ListEntries", mock.Anything, 20, (*string)(nil), false).Return([]domain.JournalEntry{*entry}, nil, nil)

	resp, err := suite.service.ListEntries(ctx, dto.ListJournalEntriesParams{Limit: 500})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), resp.Entries, 1)
	assert.Nil(suite.T(), resp.NextToken)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
