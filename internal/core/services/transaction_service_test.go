package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/core/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) FindTransactions(ctx context.Context, scope domain.VisibilityScope, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, scope, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, expectedStatus domain.TransactionStatus) error {
	args := m.Called(ctx, txn, expectedStatus)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindSummaryRows(ctx context.Context, scope domain.VisibilityScope, filter domain.TransactionFilter) ([]domain.SummaryRow, error) {
	args := m.Called(ctx, scope, filter)
	var rows []domain.SummaryRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.SummaryRow)
	}
	return rows, args.Error(1)
}

type TransactionServiceTestSuite struct {
	suite.Suite
	txnRepo  *MockTransactionRepository
	registry *MockLinkRegistry
	clock    *fakeClock
	service  portssvc.TransactionSvcFacade

	client domain.Principal
	agent  domain.Principal
	admin  domain.Principal
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.txnRepo = new(MockTransactionRepository)
	s.registry = new(MockLinkRegistry)
	s.clock = newFakeClock()

	window := services.NewTimeWindowPolicy(s.clock)
	entitlements := services.NewEntitlementEvaluator(s.registry, window)
	s.service = services.NewTransactionService(s.txnRepo, entitlements, s.clock)

	s.client = domain.Principal{UserID: "client-1", Role: domain.RoleClient}
	s.agent = domain.Principal{UserID: "agent-1", Role: domain.RoleAgent}
	s.admin = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
}

func (s *TransactionServiceTestSuite) TestCreateStandaloneEntryCompletesImmediately() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Type:   string(domain.TypeRevenue),
		Amount: decimal.NewFromInt(500),
	}
	s.txnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusCompleted &&
			txn.OwnerUserID == "client-1" &&
			txn.CurrencyCode == domain.DefaultCurrencyCode &&
			txn.Link.IsNone()
	})).Return(nil).Once()

	txn, err := s.service.CreateTransaction(ctx, s.client, req)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, txn.Status)
	s.NotEmpty(txn.TransactionID)
	s.txnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateProjectLinkedEntryStartsPending() {
	ctx := context.Background()
	projectID := "proj-1"
	link := domain.LinkTarget{Kind: domain.LinkProject, ID: projectID}
	clientID := "client-1"
	s.registry.On("ResolveLink", mock.Anything, link).
		Return(&domain.LinkFacts{Kind: domain.LinkProject, ID: projectID, OwnerUserID: &clientID}, nil).Once()
	s.txnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusPending && txn.Link == link
	})).Return(nil).Once()

	req := dto.CreateTransactionRequest{
		Type:      string(domain.TypeExpense),
		Amount:    decimal.NewFromInt(200),
		ProjectID: &projectID,
	}
	txn, err := s.service.CreateTransaction(ctx, s.client, req)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, txn.Status)
}

func (s *TransactionServiceTestSuite) TestCreateRejectsMultipleLinks() {
	svcID, orderID := "svc-1", "ord-1"
	req := dto.CreateTransactionRequest{
		Type:      string(domain.TypeRevenue),
		Amount:    decimal.NewFromInt(10),
		ServiceID: &svcID,
		OrderID:   &orderID,
	}
	_, err := s.service.CreateTransaction(context.Background(), s.client, req)
	s.ErrorIs(err, apperrors.ErrLinkIntegrity)
	s.txnRepo.AssertNotCalled(s.T(), "SaveTransaction")
}

func (s *TransactionServiceTestSuite) TestCreateRejectsDanglingLink() {
	taskID := "ghost-task"
	link := domain.LinkTarget{Kind: domain.LinkTask, ID: taskID}
	s.registry.On("ResolveLink", mock.Anything, link).Return(nil, apperrors.ErrNotFound).Once()

	req := dto.CreateTransactionRequest{
		Type:   string(domain.TypeExpense),
		Amount: decimal.NewFromInt(10),
		TaskID: &taskID,
	}
	_, err := s.service.CreateTransaction(context.Background(), s.client, req)
	s.ErrorIs(err, apperrors.ErrLinkIntegrity)
}

func (s *TransactionServiceTestSuite) TestCreateRejectsNonPositiveAmount() {
	req := dto.CreateTransactionRequest{
		Type:   string(domain.TypeRevenue),
		Amount: decimal.Zero,
	}
	_, err := s.service.CreateTransaction(context.Background(), s.client, req)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestAdminStatusOverrideOnCreate() {
	ctx := context.Background()
	status := string(domain.StatusCancelled)
	s.txnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusCancelled
	})).Return(nil).Once()

	req := dto.CreateTransactionRequest{
		Type:   string(domain.TypeAdjustment),
		Amount: decimal.NewFromInt(5),
		Status: &status,
	}
	txn, err := s.service.CreateTransaction(ctx, s.admin, req)
	s.Require().NoError(err)
	s.Equal(domain.StatusCancelled, txn.Status)
}

func (s *TransactionServiceTestSuite) TestClientStatusRequestIgnoredOnCreate() {
	ctx := context.Background()
	status := string(domain.StatusPending)
	s.txnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusCompleted
	})).Return(nil).Once()

	req := dto.CreateTransactionRequest{
		Type:   string(domain.TypeRevenue),
		Amount: decimal.NewFromInt(5),
		Status: &status,
	}
	txn, err := s.service.CreateTransaction(ctx, s.client, req)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, txn.Status)
}

func (s *TransactionServiceTestSuite) storedTxn(owner string, status domain.TransactionStatus) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: "txn-1",
		OwnerUserID:   owner,
		Type:          domain.TypeRevenue,
		Amount:        decimal.NewFromInt(100),
		CurrencyCode:  domain.DefaultCurrencyCode,
		Status:        status,
		Link:          domain.NoLink,
		AuditFields:   domain.AuditFields{CreatedAt: s.clock.Now()},
	}
}

func (s *TransactionServiceTestSuite) TestAdminCompletesPendingEntry() {
	ctx := context.Background()
	stored := s.storedTxn("client-1", domain.StatusPending)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	s.txnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.StatusCompleted
	}), domain.StatusPending).Return(nil).Once()

	newStatus := string(domain.StatusCompleted)
	txn, err := s.service.UpdateTransaction(ctx, s.admin, "txn-1", dto.UpdateTransactionRequest{Status: &newStatus})
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, txn.Status)
	s.txnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestTerminalEntryRejectsFurtherTransition() {
	ctx := context.Background()
	stored := s.storedTxn("client-1", domain.StatusCompleted)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()

	newStatus := string(domain.StatusPending)
	_, err := s.service.UpdateTransaction(ctx, s.admin, "txn-1", dto.UpdateTransactionRequest{Status: &newStatus})
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.txnRepo.AssertNotCalled(s.T(), "UpdateTransaction")
}

func (s *TransactionServiceTestSuite) TestTypeIsImmutable() {
	ctx := context.Background()
	stored := s.storedTxn("client-1", domain.StatusPending)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()

	newType := string(domain.TypeExpense)
	_, err := s.service.UpdateTransaction(ctx, s.admin, "txn-1", dto.UpdateTransactionRequest{Type: &newType})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestStaleStatusRevalidatedAgainstFreshRow() {
	// A concurrent admin cancels the entry between our read and our write; the
	// retry must re-validate against the now-terminal stored state and refuse.
	ctx := context.Background()
	pending := s.storedTxn("client-1", domain.StatusPending)
	cancelled := s.storedTxn("client-1", domain.StatusCancelled)

	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(pending, nil).Once()
	s.txnRepo.On("UpdateTransaction", ctx, mock.Anything, domain.StatusPending).
		Return(portsrepo.ErrStaleStatus).Once()
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(cancelled, nil).Once()

	newStatus := string(domain.StatusCompleted)
	_, err := s.service.UpdateTransaction(ctx, s.admin, "txn-1", dto.UpdateTransactionRequest{Status: &newStatus})
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.txnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestClientUpdateOutsideWindowForbidden() {
	ctx := context.Background()
	stored := s.storedTxn("client-1", domain.StatusPending)
	s.clock.Advance(2 * time.Hour)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()

	desc := "late edit"
	_, err := s.service.UpdateTransaction(ctx, s.client, "txn-1", dto.UpdateTransactionRequest{Description: &desc})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *TransactionServiceTestSuite) TestForeignEntryUpdateIsNotFound() {
	ctx := context.Background()
	stored := s.storedTxn("client-2", domain.StatusPending)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()

	desc := "not mine"
	_, err := s.service.UpdateTransaction(ctx, s.client, "txn-1", dto.UpdateTransactionRequest{Description: &desc})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestAgentDeleteForbiddenEvenOnOwnEntry() {
	ctx := context.Background()
	stored := s.storedTxn("agent-1", domain.StatusPending)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()

	err := s.service.DeleteTransaction(ctx, s.agent, "txn-1")
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.txnRepo.AssertNotCalled(s.T(), "DeleteTransaction")
}

func (s *TransactionServiceTestSuite) TestClientDeletesOwnEntryInsideWindow() {
	ctx := context.Background()
	stored := s.storedTxn("client-1", domain.StatusCompleted)
	s.clock.Advance(10 * time.Minute)
	s.txnRepo.On("FindTransactionByID", ctx, "txn-1").Return(stored, nil).Once()
	s.txnRepo.On("DeleteTransaction", ctx, "txn-1").Return(nil).Once()

	s.NoError(s.service.DeleteTransaction(ctx, s.client, "txn-1"))
	s.txnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestListUsesPrincipalScope() {
	ctx := context.Background()
	s.txnRepo.On("FindTransactions", ctx, domain.ScopeOwner("client-1"), mock.Anything).
		Return([]domain.Transaction{}, nil).Once()

	txns, err := s.service.ListTransactions(ctx, s.client, domain.TransactionFilter{})
	s.Require().NoError(err)
	s.Empty(txns)
	s.txnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestSummaryByRoleOnlyForAdmin() {
	ctx := context.Background()
	rows := []domain.SummaryRow{
		{Type: domain.TypeRevenue, OwnerRole: domain.RoleClient, Total: decimal.NewFromInt(100)},
	}
	s.txnRepo.On("FindSummaryRows", ctx, domain.ScopeAll(), mock.Anything).Return(rows, nil).Once()
	s.txnRepo.On("FindSummaryRows", ctx, domain.ScopeOwner("client-1"), mock.Anything).Return(rows, nil).Once()

	adminSummary, err := s.service.SummarizeTransactions(ctx, s.admin, domain.TransactionFilter{})
	s.Require().NoError(err)
	s.NotNil(adminSummary.ByRole)

	clientSummary, err := s.service.SummarizeTransactions(ctx, s.client, domain.TransactionFilter{})
	s.Require().NoError(err)
	s.Nil(clientSummary.ByRole)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
