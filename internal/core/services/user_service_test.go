package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/core/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
	"github.com/immoplus-app/immoplus-backend/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error {
	args := m.Called(ctx, userID, deletedAt, deleterUserID)
	return args.Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	clock    *fakeClock
	service  portssvc.UserSvcFacade

	admin  domain.Principal
	client domain.Principal
}

func (s *UserServiceTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.clock = newFakeClock()
	s.service = services.NewUserService(s.userRepo, s.clock)

	s.admin = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	s.client = domain.Principal{UserID: "client-1", Role: domain.RoleClient}
}

func (s *UserServiceTestSuite) TestCreateUserAdminOnly() {
	req := dto.CreateUserRequest{Username: "newagent", Password: "supersecret", Name: "New Agent", Role: "AGENT"}

	_, err := s.service.CreateUser(context.Background(), s.client, req)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.userRepo.AssertNotCalled(s.T(), "SaveUser")
}

func (s *UserServiceTestSuite) TestCreateUserHashesPassword() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "newagent", Password: "supersecret", Name: "New Agent", Role: "AGENT"}

	s.userRepo.On("FindUserByUsername", ctx, "newagent").Return(nil, apperrors.ErrNotFound).Once()
	s.userRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Role == domain.RoleAgent &&
			user.PasswordHash != nil &&
			utils.CheckPasswordHash("supersecret", *user.PasswordHash)
	})).Return(nil).Once()

	user, err := s.service.CreateUser(ctx, s.admin, req)
	s.Require().NoError(err)
	s.Equal("newagent", user.Username)
	s.userRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUserDuplicateUsername() {
	ctx := context.Background()
	existing := &domain.User{UserID: "u-1", Username: "taken"}
	s.userRepo.On("FindUserByUsername", ctx, "taken").Return(existing, nil).Once()

	req := dto.CreateUserRequest{Username: "taken", Password: "supersecret", Name: "X", Role: "CLIENT"}
	_, err := s.service.CreateUser(ctx, s.admin, req)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *UserServiceTestSuite) TestAuthenticateUnknownUserIsUnauthorized() {
	ctx := context.Background()
	s.userRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.AuthenticateUser(ctx, "ghost", "whatever")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateWrongPasswordIsUnauthorized() {
	ctx := context.Background()
	hash, err := utils.HashPassword("rightpassword")
	s.Require().NoError(err)
	user := &domain.User{UserID: "u-1", Username: "someone", PasswordHash: &hash}
	s.userRepo.On("FindUserByUsername", ctx, "someone").Return(user, nil).Once()

	_, err = s.service.AuthenticateUser(ctx, "someone", "wrongpassword")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateSuccess() {
	ctx := context.Background()
	hash, err := utils.HashPassword("rightpassword")
	s.Require().NoError(err)
	user := &domain.User{UserID: "u-1", Username: "someone", Role: domain.RoleClient, PasswordHash: &hash}
	s.userRepo.On("FindUserByUsername", ctx, "someone").Return(user, nil).Once()

	got, err := s.service.AuthenticateUser(ctx, "someone", "rightpassword")
	s.Require().NoError(err)
	s.Equal("u-1", got.UserID)
}

func (s *UserServiceTestSuite) TestDeleteUserAdminOnly() {
	err := s.service.DeleteUser(context.Background(), s.client, "u-1")
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.userRepo.AssertNotCalled(s.T(), "MarkUserDeleted")
}

func (s *UserServiceTestSuite) TestDeleteUserSoftDeletes() {
	ctx := context.Background()
	s.userRepo.On("MarkUserDeleted", ctx, "u-1", s.clock.Now(), "admin-1").Return(nil).Once()

	s.NoError(s.service.DeleteUser(ctx, s.admin, "u-1"))
	s.userRepo.AssertExpectations(s.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
