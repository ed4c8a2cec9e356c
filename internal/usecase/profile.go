// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/korryu3/github-profile-trophy/internal/domain"
	"github.com/korryu3/github-profile-trophy/internal/gateway"
	"github.com/korryu3/github-profile-trophy/internal/retry"
)

// ProfileService orchestrates the facet queries that make up a user
// profile. Every remote call goes through the credential rotator.
type ProfileService struct {
	fetcher gateway.Fetcher
	retrier *retry.Rotator
	logger  *log.Logger
	clock   func() time.Time
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(fetcher gateway.Fetcher, retrier *retry.Rotator, logger *log.Logger) *ProfileService {
	return &ProfileService{
		fetcher: fetcher,
		retrier: retrier,
		logger:  logger,
		clock:   time.Now,
	}
}

// RequestUserRepository fetches repository stats, rotating credentials on failure.
func (s *ProfileService) RequestUserRepository(ctx context.Context, username string) (*domain.RepositoryStats, error) {
	var stats *domain.RepositoryStats
	err := s.retrier.Do(ctx, func(credential int) error {
		var err error
		stats, err = s.fetcher.FetchUserRepository(ctx, username, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RequestUserActivity fetches activity stats, rotating credentials on failure.
func (s *ProfileService) RequestUserActivity(ctx context.Context, username string) (*domain.ActivityStats, error) {
	var stats *domain.ActivityStats
	err := s.retrier.Do(ctx, func(credential int) error {
		var err error
		stats, err = s.fetcher.FetchUserActivity(ctx, username, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RequestUserIssue fetches issue stats, rotating credentials on failure.
func (s *ProfileService) RequestUserIssue(ctx context.Context, username string) (*domain.IssueStats, error) {
	var stats *domain.IssueStats
	err := s.retrier.Do(ctx, func(credential int) error {
		var err error
		stats, err = s.fetcher.FetchUserIssue(ctx, username, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RequestUserPullRequest fetches pull request stats, rotating credentials on failure.
func (s *ProfileService) RequestUserPullRequest(ctx context.Context, username string) (*domain.PullRequestStats, error) {
	var stats *domain.PullRequestStats
	err := s.retrier.Do(ctx, func(credential int) error {
		var err error
		stats, err = s.fetcher.FetchUserPullRequest(ctx, username, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RequestUserContributionsByYear fetches commit contributions within one
// window, rotating credentials on failure.
func (s *ProfileService) RequestUserContributionsByYear(ctx context.Context, username string, from, to time.Time) (*domain.YearContributions, error) {
	var contributions *domain.YearContributions
	err := s.retrier.Do(ctx, func(credential int) error {
		var err error
		contributions, err = s.fetcher.FetchContributionsByYear(ctx, username, from, to, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

// RequestUserInfo fans out the four facet queries concurrently and, once
// every one of them has settled, either composes the full profile or fails
// as a whole. A profile with a facet missing is treated the same as an
// unknown user.
func (s *ProfileService) RequestUserInfo(ctx context.Context, username string) (*domain.UserProfile, error) {
	s.logger.Printf("Aggregating profile for %s...", username)

	var (
		repository  *domain.RepositoryStats
		activity    *domain.ActivityStats
		issue       *domain.IssueStats
		pullRequest *domain.PullRequestStats
	)

	// A bare errgroup, without a shared cancellable context, so every
	// branch runs to completion before the aggregation is decided.
	var eg errgroup.Group

	eg.Go(func() error {
		var err error
		if repository, err = s.RequestUserRepository(ctx, username); err != nil {
			s.logger.Printf("repository query for %s failed: %v", username, err)
		}
		return err
	})
	eg.Go(func() error {
		var err error
		if activity, err = s.RequestUserActivity(ctx, username); err != nil {
			s.logger.Printf("activity query for %s failed: %v", username, err)
		}
		return err
	})
	eg.Go(func() error {
		var err error
		if issue, err = s.RequestUserIssue(ctx, username); err != nil {
			s.logger.Printf("issue query for %s failed: %v", username, err)
		}
		return err
	})
	eg.Go(func() error {
		var err error
		if pullRequest, err = s.RequestUserPullRequest(ctx, username); err != nil {
			s.logger.Printf("pull request query for %s failed: %v", username, err)
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, domain.NotFound(username, err)
	}

	profile := &domain.UserProfile{
		Username:    username,
		Repository:  *repository,
		Activity:    *activity,
		Issue:       *issue,
		PullRequest: *pullRequest,
	}
	profile.AllTimeCommits = s.RequestAllTimeCommits(ctx, username, activity.CreatedAt)

	s.logger.Printf("Profile for %s aggregated.", username)
	return profile, nil
}

// RequestAllTimeCommits sums commit contributions over calendar-year
// windows from the account creation date to now. Windows are queried one
// at a time in ascending order so this sweep never holds more than one
// request in flight. A failed window is logged and skipped, never fatal.
func (s *ProfileService) RequestAllTimeCommits(ctx context.Context, username string, createdAt time.Time) int {
	createdAt = createdAt.UTC()
	now := s.clock().UTC()

	total := 0
	for year := createdAt.Year(); year <= now.Year(); year++ {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		if year == createdAt.Year() {
			from = createdAt
		}
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		if year == now.Year() {
			to = now
		}

		contributions, err := s.RequestUserContributionsByYear(ctx, username, from, to)
		if err != nil {
			s.logger.Printf("skipping %d contributions for %s: %v", year, username, err)
			continue
		}
		total += contributions.Total()
	}
	return total
}
