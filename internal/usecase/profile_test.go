package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/korryu3/github-profile-trophy/internal/domain"
	"github.com/korryu3/github-profile-trophy/internal/retry"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the GitHub gateway without real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchUserRepository(ctx context.Context, username string, credential int) (*domain.RepositoryStats, error) {
	args := m.Called(ctx, username, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryStats), args.Error(1)
}

func (m *mockFetcher) FetchUserActivity(ctx context.Context, username string, credential int) (*domain.ActivityStats, error) {
	args := m.Called(ctx, username, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityStats), args.Error(1)
}

func (m *mockFetcher) FetchUserIssue(ctx context.Context, username string, credential int) (*domain.IssueStats, error) {
	args := m.Called(ctx, username, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssueStats), args.Error(1)
}

func (m *mockFetcher) FetchUserPullRequest(ctx context.Context, username string, credential int) (*domain.PullRequestStats, error) {
	args := m.Called(ctx, username, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequestStats), args.Error(1)
}

func (m *mockFetcher) FetchContributionsByYear(ctx context.Context, username string, from, to time.Time, credential int) (*domain.YearContributions, error) {
	args := m.Called(ctx, username, from, to, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearContributions), args.Error(1)
}

var facetMethods = []string{
	"FetchUserRepository",
	"FetchUserActivity",
	"FetchUserIssue",
	"FetchUserPullRequest",
}

// stubFacetSuccess registers a happy-path expectation for one facet method.
func stubFacetSuccess(fetcher *mockFetcher, method, username string, createdAt time.Time) {
	switch method {
	case "FetchUserRepository":
		fetcher.On(method, mock.Anything, username, 0).
			Return(&domain.RepositoryStats{TotalRepositories: 3, TotalStargazers: 10, TotalForks: 2}, nil)
	case "FetchUserActivity":
		fetcher.On(method, mock.Anything, username, 0).
			Return(&domain.ActivityStats{CreatedAt: createdAt, TotalCommitContributions: 100, TotalFollowers: 42}, nil)
	case "FetchUserIssue":
		fetcher.On(method, mock.Anything, username, 0).
			Return(&domain.IssueStats{OpenIssues: 4, ClosedIssues: 6}, nil)
	case "FetchUserPullRequest":
		fetcher.On(method, mock.Anything, username, 0).
			Return(&domain.PullRequestStats{TotalPullRequests: 5}, nil)
	}
}

// newTestService builds a service with a single-credential rotator so
// retry behavior stays out of the aggregation tests, and a fixed clock.
func newTestService(fetcher *mockFetcher, now time.Time) *ProfileService {
	logger := log.New(io.Discard, "", 0)
	service := NewProfileService(fetcher, retry.NewRotator(1, 0), logger)
	service.clock = func() time.Time { return now }
	return service
}

func TestProfileService_RequestUserInfo_ComposesProfile(t *testing.T) {
	createdAt := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	fetcher := new(mockFetcher)
	for _, method := range facetMethods {
		stubFacetSuccess(fetcher, method, "octocat", createdAt)
	}
	// Three year windows, 6 commits each.
	fetcher.On("FetchContributionsByYear", mock.Anything, "octocat", mock.Anything, mock.Anything, 0).
		Return(&domain.YearContributions{TotalCommitContributions: 5, RestrictedContributionsCount: 1}, nil)

	service := newTestService(fetcher, now)

	profile, err := service.RequestUserInfo(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Equal(t, "octocat", profile.Username)
	assert.Equal(t, 3, profile.Repository.TotalRepositories)
	assert.Equal(t, 42, profile.Activity.TotalFollowers)
	assert.Equal(t, 4, profile.Issue.OpenIssues)
	assert.Equal(t, 5, profile.PullRequest.TotalPullRequests)
	assert.Equal(t, 18, profile.AllTimeCommits)
	fetcher.AssertNumberOfCalls(t, "FetchContributionsByYear", 3)
}

func TestProfileService_RequestUserInfo_FailsWhenAnyFacetFails(t *testing.T) {
	createdAt := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, failing := range facetMethods {
		t.Run(failing, func(t *testing.T) {
			fetcher := new(mockFetcher)
			for _, method := range facetMethods {
				if method == failing {
					fetcher.On(method, mock.Anything, "octocat", 0).
						Return(nil, errors.New("simulated failure"))
					continue
				}
				stubFacetSuccess(fetcher, method, "octocat", createdAt)
			}

			service := newTestService(fetcher, now)

			profile, err := service.RequestUserInfo(context.Background(), "octocat")

			assert.Nil(t, profile, "no partial profile may be returned")
			assert.True(t, domain.IsKind(err, domain.KindNotFound))
			fetcher.AssertNotCalled(t, "FetchContributionsByYear",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProfileService_RequestUserRepository_RotatesCredentials(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchUserRepository", mock.Anything, "octocat", 0).
		Return(nil, errors.New("credential rejected")).Once()
	fetcher.On("FetchUserRepository", mock.Anything, "octocat", 1).
		Return(&domain.RepositoryStats{TotalStargazers: 7}, nil).Once()

	logger := log.New(io.Discard, "", 0)
	service := NewProfileService(fetcher, retry.NewRotator(2, time.Millisecond), logger)

	stats, err := service.RequestUserRepository(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Equal(t, 7, stats.TotalStargazers)
	fetcher.AssertExpectations(t)
}

func TestProfileService_RequestAllTimeCommits_YearWindows(t *testing.T) {
	createdAt := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	windows := []struct {
		from, to time.Time
	}{
		{createdAt, time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC)},
		{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 12, 31, 23, 59, 59, 0, time.UTC)},
		{time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), now},
	}

	fetcher := new(mockFetcher)
	for _, w := range windows {
		fetcher.On("FetchContributionsByYear", mock.Anything, "octocat", w.from, w.to, 0).
			Return(&domain.YearContributions{TotalCommitContributions: 5, RestrictedContributionsCount: 1}, nil).Once()
	}

	service := newTestService(fetcher, now)

	total := service.RequestAllTimeCommits(context.Background(), "octocat", createdAt)

	assert.Equal(t, 18, total)
	fetcher.AssertExpectations(t)
	fetcher.AssertNumberOfCalls(t, "FetchContributionsByYear", 3)
}

func TestProfileService_RequestAllTimeCommits_SameYearSingleWindow(t *testing.T) {
	createdAt := time.Date(2022, 1, 10, 12, 30, 0, 0, time.UTC)
	now := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	fetcher := new(mockFetcher)
	fetcher.On("FetchContributionsByYear", mock.Anything, "octocat", createdAt, now, 0).
		Return(&domain.YearContributions{TotalCommitContributions: 9}, nil).Once()

	service := newTestService(fetcher, now)

	total := service.RequestAllTimeCommits(context.Background(), "octocat", createdAt)

	assert.Equal(t, 9, total)
	fetcher.AssertExpectations(t)
	fetcher.AssertNumberOfCalls(t, "FetchContributionsByYear", 1)
}

func TestProfileService_RequestAllTimeCommits_SkipsFailedWindows(t *testing.T) {
	createdAt := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	contributions := &domain.YearContributions{TotalCommitContributions: 5, RestrictedContributionsCount: 1}

	fetcher := new(mockFetcher)
	fetcher.On("FetchContributionsByYear", mock.Anything, "octocat",
		createdAt, time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC), 0).
		Return(contributions, nil).Once()
	fetcher.On("FetchContributionsByYear", mock.Anything, "octocat",
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 12, 31, 23, 59, 59, 0, time.UTC), 0).
		Return(nil, errors.New("simulated failure")).Once()
	fetcher.On("FetchContributionsByYear", mock.Anything, "octocat",
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), now, 0).
		Return(contributions, nil).Once()

	service := newTestService(fetcher, now)

	total := service.RequestAllTimeCommits(context.Background(), "octocat", createdAt)

	assert.Equal(t, 12, total, "failed window contributes zero, loop continues")
	fetcher.AssertExpectations(t)
}

func TestProfileService_RequestAllTimeCommits_AllWindowsFail(t *testing.T) {
	createdAt := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)

	fetcher := new(mockFetcher)
	fetcher.On("FetchContributionsByYear", mock.Anything, "octocat", mock.Anything, mock.Anything, 0).
		Return(nil, errors.New("simulated failure"))

	service := newTestService(fetcher, now)

	total := service.RequestAllTimeCommits(context.Background(), "octocat", createdAt)

	assert.Equal(t, 0, total)
	fetcher.AssertNumberOfCalls(t, "FetchContributionsByYear", 2)
}
