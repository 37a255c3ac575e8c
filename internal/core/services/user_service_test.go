package services_test

import (
	"context"
	"testing"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	"github.com/kursboard/kursboard/internal/core/services"
	"github.com/kursboard/kursboard/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  *services.UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Username: "admin", PasswordHash: hash, Role: domain.RoleAdmin}
	suite.mockRepo.On("FindUserByUsername", ctx, "admin").Return(stored, nil).Once()

	user, err := suite.service.Authenticate(ctx, "admin", "correct horse")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Username: "admin", PasswordHash: hash, Role: domain.RoleAdmin}
	suite.mockRepo.On("FindUserByUsername", ctx, "admin").Return(stored, nil).Once()

	_, err = suite.service.Authenticate(ctx, "admin", "wrong")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUser() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, "ghost", "whatever")

	// Unknown user and wrong password are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestEnsureAdminUser_SkipsExisting() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Username: "admin"}
	suite.mockRepo.On("FindUserByUsername", ctx, "admin").Return(existing, nil).Once()

	err := suite.service.EnsureAdminUser(ctx, "admin", "secret")

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestEnsureAdminUser_CreatesWithAdminRole() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByUsername", ctx, "admin").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "admin" && u.Role == domain.RoleAdmin && utils.CheckPasswordHash("secret", u.PasswordHash)
	})).Return(nil).Once()

	err := suite.service.EnsureAdminUser(ctx, "admin", "secret")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

// --- Access gate ---

func TestAuthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("editor lacks audit capability", func(t *testing.T) {
		repo := new(MockUserRepository)
		editor := &domain.User{UserID: "u1", Role: domain.RoleEditor}
		repo.On("FindUserByID", ctx, "u1").Return(editor, nil)
		gate := services.NewAccessService(repo)

		allowed, err := gate.Authorize(ctx, "u1", domain.CapabilityViewAudit)
		if err != nil {
			t.Fatal(err)
		}
		if allowed {
			t.Fatal("editor must not view the audit trail")
		}

		allowed, err = gate.Authorize(ctx, "u1", domain.CapabilityManageRates)
		if err != nil {
			t.Fatal(err)
		}
		if !allowed {
			t.Fatal("editor must manage rates")
		}
	})

	t.Run("unknown user is denied without error", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindUserByID", ctx, "nope").Return(nil, apperrors.ErrNotFound)
		gate := services.NewAccessService(repo)

		allowed, err := gate.Authorize(ctx, "nope", domain.CapabilityManageRates)
		if err != nil {
			t.Fatal(err)
		}
		if allowed {
			t.Fatal("unknown user must be denied")
		}
	})

	t.Run("empty user id is denied", func(t *testing.T) {
		gate := services.NewAccessService(new(MockUserRepository))
		allowed, err := gate.Authorize(ctx, "", domain.CapabilityManageRates)
		if err != nil || allowed {
			t.Fatal("empty user must be denied without error")
		}
	})
}
