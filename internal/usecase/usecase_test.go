package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"golinks/internal/entity"
)

type redirectRepoMock struct {
	mock.Mock
}

func (m *redirectRepoMock) Save(ctx context.Context, shortPath, destination, ownerID, label string) (*entity.Redirect, error) {
	args := m.Called(ctx, shortPath, destination, ownerID, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Redirect), args.Error(1)
}

func (m *redirectRepoMock) Exists(ctx context.Context, shortPath string) (bool, error) {
	args := m.Called(ctx, shortPath)
	return args.Bool(0), args.Error(1)
}

func (m *redirectRepoMock) RetrieveByShortPath(ctx context.Context, shortPath string) (*entity.Redirect, error) {
	args := m.Called(ctx, shortPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Redirect), args.Error(1)
}

func (m *redirectRepoMock) RetrieveAndBumpAccess(ctx context.Context, shortPath string) (*entity.Redirect, error) {
	args := m.Called(ctx, shortPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Redirect), args.Error(1)
}

type RedirectRegistryTestSuite struct {
	suite.Suite
	errUnknown       error
	redirectRepoMock *redirectRepoMock
	registry         *RedirectRegistry
}

func (suite *RedirectRegistryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *RedirectRegistryTestSuite) SetupSubTest() {
	suite.redirectRepoMock = new(redirectRepoMock)
	suite.registry = New(suite.redirectRepoMock)
}

func (suite *RedirectRegistryTestSuite) TearDownSubTest() {
	suite.redirectRepoMock.AssertExpectations(suite.T())
}

func (suite *RedirectRegistryTestSuite) TestRegister() {
	suite.Run("empty short path", func() {
		redirect, err := suite.registry.Register(context.Background(), "u1", "", "https://example.com", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEmptyShortPath)
		suite.Nil(redirect)
		suite.redirectRepoMock.AssertNotCalled(suite.T(), "Save")
	})

	suite.Run("empty destination", func() {
		redirect, err := suite.registry.Register(context.Background(), "u1", "abc123", "", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEmptyDestination)
		suite.Nil(redirect)
		suite.redirectRepoMock.AssertNotCalled(suite.T(), "Save")
	})

	suite.Run("missing caller", func() {
		redirect, err := suite.registry.Register(context.Background(), "", "abc123", "https://example.com", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrMissingCaller)
		suite.Nil(redirect)
		suite.redirectRepoMock.AssertNotCalled(suite.T(), "Save")
	})

	suite.Run("short path exists", func() {
		suite.redirectRepoMock.
			On("Save", context.Background(), "dup", "https://example.com", "u1", "").
			Once().
			Return(nil, entity.ErrShortPathExists)

		redirect, err := suite.registry.Register(context.Background(), "u1", "dup", "https://example.com", "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortPathExists)
		suite.Nil(redirect)
	})

	suite.Run("unknown error", func() {
		suite.redirectRepoMock.
			On("Save", context.Background(), "abc123", "https://example.com", "u1", "").
			Once().
			Return(nil, suite.errUnknown)

		redirect, err := suite.registry.Register(context.Background(), "u1", "abc123", "https://example.com", "")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(redirect)
	})

	suite.Run("success", func() {
		suite.redirectRepoMock.
			On("Save", context.Background(), "abc123", "https://example.com", "u1", "docs").
			Once().
			Return(&entity.Redirect{
				ShortPath:   "abc123",
				Destination: "https://example.com",
				Label:       "docs",
				OwnerID:     "u1",
			}, nil)

		redirect, err := suite.registry.Register(context.Background(), "u1", "abc123", "https://example.com", "docs")

		suite.NoError(err)
		suite.NotNil(redirect)
		suite.Equal("abc123", redirect.ShortPath)
		suite.Equal("https://example.com", redirect.Destination)
		suite.Equal("u1", redirect.OwnerID)
		suite.Zero(redirect.AccessCount)
	})
}

func (suite *RedirectRegistryTestSuite) TestCheckAvailability() {
	suite.Run("empty short path", func() {
		exists, err := suite.registry.CheckAvailability(context.Background(), "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEmptyShortPath)
		suite.False(exists)
		suite.redirectRepoMock.AssertNotCalled(suite.T(), "Exists")
	})

	suite.Run("unknown error", func() {
		suite.redirectRepoMock.
			On("Exists", context.Background(), "abc123").
			Once().
			Return(false, suite.errUnknown)

		exists, err := suite.registry.CheckAvailability(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(exists)
	})

	suite.Run("taken", func() {
		suite.redirectRepoMock.
			On("Exists", context.Background(), "abc123").
			Once().
			Return(true, nil)

		exists, err := suite.registry.CheckAvailability(context.Background(), "abc123")

		suite.NoError(err)
		suite.True(exists)
	})

	suite.Run("available", func() {
		suite.redirectRepoMock.
			On("Exists", context.Background(), "abc123").
			Once().
			Return(false, nil)

		exists, err := suite.registry.CheckAvailability(context.Background(), "abc123")

		suite.NoError(err)
		suite.False(exists)
	})
}

func (suite *RedirectRegistryTestSuite) TestResolve() {
	suite.Run("empty short path", func() {
		redirect, err := suite.registry.Resolve(context.Background(), "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEmptyShortPath)
		suite.Nil(redirect)
		suite.redirectRepoMock.AssertNotCalled(suite.T(), "RetrieveAndBumpAccess")
	})

	suite.Run("redirect not found", func() {
		suite.redirectRepoMock.
			On("RetrieveAndBumpAccess", context.Background(), "missing-id").
			Once().
			Return(nil, entity.ErrRedirectNotFound)

		redirect, err := suite.registry.Resolve(context.Background(), "missing-id")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrRedirectNotFound)
		suite.Nil(redirect)
	})

	suite.Run("unknown error", func() {
		suite.redirectRepoMock.
			On("RetrieveAndBumpAccess", context.Background(), "abc123").
			Once().
			Return(nil, suite.errUnknown)

		redirect, err := suite.registry.Resolve(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(redirect)
	})

	suite.Run("success", func() {
		suite.redirectRepoMock.
			On("RetrieveAndBumpAccess", context.Background(), "abc123").
			Once().
			Return(&entity.Redirect{
				ShortPath:   "abc123",
				Destination: "https://example.com",
				RedirectStats: entity.RedirectStats{
					AccessCount: 1,
				},
			}, nil)

		redirect, err := suite.registry.Resolve(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(redirect)
		suite.Equal("abc123", redirect.ShortPath)
		suite.Equal("https://example.com", redirect.Destination)
		suite.Equal(int64(1), redirect.AccessCount)
	})
}

func (suite *RedirectRegistryTestSuite) TestStats() {
	suite.Run("empty short path", func() {
		redirect, err := suite.registry.Stats(context.Background(), "")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEmptyShortPath)
		suite.Nil(redirect)
		suite.redirectRepoMock.AssertNotCalled(suite.T(), "RetrieveByShortPath")
	})

	suite.Run("redirect not found", func() {
		suite.redirectRepoMock.
			On("RetrieveByShortPath", context.Background(), "abc123").
			Once().
			Return(nil, entity.ErrRedirectNotFound)

		redirect, err := suite.registry.Stats(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrRedirectNotFound)
		suite.Nil(redirect)
	})

	suite.Run("success", func() {
		suite.redirectRepoMock.
			On("RetrieveByShortPath", context.Background(), "abc123").
			Once().
			Return(&entity.Redirect{
				ShortPath:   "abc123",
				Destination: "https://example.com",
				OwnerID:     "u1",
				RedirectStats: entity.RedirectStats{
					AccessCount: 3,
				},
			}, nil)

		redirect, err := suite.registry.Stats(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(redirect)
		suite.Equal("abc123", redirect.ShortPath)
		suite.Equal(int64(3), redirect.AccessCount)
	})
}

func TestRedirectRegistry(t *testing.T) {
	suite.Run(t, new(RedirectRegistryTestSuite))
}
