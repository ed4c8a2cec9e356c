// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying GraphQL and REST clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/korryu3/github-profile-trophy/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching profile facets
// from GitHub. The credential argument selects a slot in the token pool;
// the caller (the rotation layer) decides which slot each attempt uses.
type Fetcher interface {
	FetchUserRepository(ctx context.Context, username string, credential int) (*domain.RepositoryStats, error)
	FetchUserActivity(ctx context.Context, username string, credential int) (*domain.ActivityStats, error)
	FetchUserIssue(ctx context.Context, username string, credential int) (*domain.IssueStats, error)
	FetchUserPullRequest(ctx context.Context, username string, credential int) (*domain.PullRequestStats, error)
	FetchContributionsByYear(ctx context.Context, username string, from, to time.Time, credential int) (*domain.YearContributions, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// It keeps one GraphQL and one REST client per credential; the clients are
// stateless with respect to each other, so concurrent calls may use the
// same slot.
type GitHubGateway struct {
	graphqlClients []*githubv4.Client
	restClients    []*github.Client
	logger         *log.Logger
}

// userRepositoryQuery fetches the user's owned repositories ordered by
// stargazers, with enough nodes to total stars, forks and languages.
type userRepositoryQuery struct {
	User struct {
		Repositories struct {
			TotalCount githubv4.Int
			Nodes      []struct {
				ForkCount  githubv4.Int
				Stargazers struct {
					TotalCount githubv4.Int
				}
				Languages struct {
					Nodes []struct {
						Name githubv4.String
					}
				} `graphql:"languages(first: 10, orderBy: {field: SIZE, direction: DESC})"`
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, orderBy: {field: STARGAZERS, direction: DESC})"`
	} `graphql:"user(login: $username)"`
}

type userActivityQuery struct {
	User struct {
		CreatedAt               githubv4.DateTime
		ContributionsCollection struct {
			TotalCommitContributions            githubv4.Int
			TotalPullRequestReviewContributions githubv4.Int
		}
		Organizations struct {
			TotalCount githubv4.Int
		} `graphql:"organizations(first: 1)"`
		Followers struct {
			TotalCount githubv4.Int
		} `graphql:"followers(first: 1)"`
	} `graphql:"user(login: $username)"`
}

type userIssueQuery struct {
	User struct {
		OpenIssues struct {
			TotalCount githubv4.Int
		} `graphql:"openIssues: issues(states: OPEN)"`
		ClosedIssues struct {
			TotalCount githubv4.Int
		} `graphql:"closedIssues: issues(states: CLOSED)"`
	} `graphql:"user(login: $username)"`
}

type userPullRequestQuery struct {
	User struct {
		PullRequests struct {
			TotalCount githubv4.Int
		} `graphql:"pullRequests(first: 1)"`
	} `graphql:"user(login: $username)"`
}

// contributionsByYearQuery scopes the contributions collection to one
// calendar-year window.
type contributionsByYearQuery struct {
	User struct {
		ContributionsCollection struct {
			TotalCommitContributions     githubv4.Int
			RestrictedContributionsCount githubv4.Int
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $username)"`
}

// NewGitHubGateway builds a gateway with one authenticated client per
// token in the pool. The pool is fixed for the gateway's lifetime.
func NewGitHubGateway(tokens []string, logger *log.Logger) (*GitHubGateway, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("credential pool is empty")
	}
	g := &GitHubGateway{
		graphqlClients: make([]*githubv4.Client, 0, len(tokens)),
		restClients:    make([]*github.Client, 0, len(tokens)),
		logger:         logger,
	}
	for _, token := range tokens {
		httpClient, err := newTokenClient(token)
		if err != nil {
			return nil, err
		}
		g.graphqlClients = append(g.graphqlClients, githubv4.NewClient(httpClient))
		g.restClients = append(g.restClients, github.NewClient(httpClient))
	}
	return g, nil
}

func newTokenClient(token string) (*http.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}, nil
}

// query runs one GraphQL query with the given credential slot. Every
// failure path resolves to a classified *domain.QueryError.
func (g *GitHubGateway) query(ctx context.Context, q interface{}, variables map[string]interface{}, credential int) error {
	if credential < 0 || credential >= len(g.graphqlClients) {
		return domain.NewQueryError(domain.KindTransport, fmt.Sprintf("credential index %d out of range", credential), nil)
	}
	if err := g.graphqlClients[credential].Query(ctx, q, variables); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps a raw client error onto the domain error taxonomy.
func classify(err error) *domain.QueryError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not resolve to a User"):
		return domain.NewQueryError(domain.KindNotFound, "user not found", err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "Bad credentials"):
		return domain.NewQueryError(domain.KindAuth, "credential rejected", err)
	default:
		return domain.NewQueryError(domain.KindTransport, "query failed", err)
	}
}

func (g *GitHubGateway) FetchUserRepository(ctx context.Context, username string, credential int) (*domain.RepositoryStats, error) {
	g.logger.Printf("Fetching repository stats for %s (credential %d)...", username, credential)
	var q userRepositoryQuery
	variables := map[string]interface{}{"username": githubv4.String(username)}
	if err := g.query(ctx, &q, variables, credential); err != nil {
		return nil, err
	}

	stats := &domain.RepositoryStats{TotalRepositories: int(q.User.Repositories.TotalCount)}
	seen := make(map[string]bool)
	for _, repo := range q.User.Repositories.Nodes {
		stats.TotalStargazers += int(repo.Stargazers.TotalCount)
		stats.TotalForks += int(repo.ForkCount)
		for _, lang := range repo.Languages.Nodes {
			name := string(lang.Name)
			if !seen[name] {
				seen[name] = true
				stats.Languages = append(stats.Languages, name)
			}
		}
	}
	return stats, nil
}

func (g *GitHubGateway) FetchUserActivity(ctx context.Context, username string, credential int) (*domain.ActivityStats, error) {
	g.logger.Printf("Fetching activity stats for %s (credential %d)...", username, credential)
	var q userActivityQuery
	variables := map[string]interface{}{"username": githubv4.String(username)}
	if err := g.query(ctx, &q, variables, credential); err != nil {
		return nil, err
	}

	return &domain.ActivityStats{
		CreatedAt:                           q.User.CreatedAt.Time,
		TotalCommitContributions:            int(q.User.ContributionsCollection.TotalCommitContributions),
		TotalPullRequestReviewContributions: int(q.User.ContributionsCollection.TotalPullRequestReviewContributions),
		TotalFollowers:                      int(q.User.Followers.TotalCount),
		TotalOrganizations:                  int(q.User.Organizations.TotalCount),
	}, nil
}

func (g *GitHubGateway) FetchUserIssue(ctx context.Context, username string, credential int) (*domain.IssueStats, error) {
	g.logger.Printf("Fetching issue stats for %s (credential %d)...", username, credential)
	var q userIssueQuery
	variables := map[string]interface{}{"username": githubv4.String(username)}
	if err := g.query(ctx, &q, variables, credential); err != nil {
		return nil, err
	}

	return &domain.IssueStats{
		OpenIssues:   int(q.User.OpenIssues.TotalCount),
		ClosedIssues: int(q.User.ClosedIssues.TotalCount),
	}, nil
}

func (g *GitHubGateway) FetchUserPullRequest(ctx context.Context, username string, credential int) (*domain.PullRequestStats, error) {
	g.logger.Printf("Fetching pull request stats for %s (credential %d)...", username, credential)
	var q userPullRequestQuery
	variables := map[string]interface{}{"username": githubv4.String(username)}
	if err := g.query(ctx, &q, variables, credential); err != nil {
		return nil, err
	}

	return &domain.PullRequestStats{TotalPullRequests: int(q.User.PullRequests.TotalCount)}, nil
}

func (g *GitHubGateway) FetchContributionsByYear(ctx context.Context, username string, from, to time.Time, credential int) (*domain.YearContributions, error) {
	g.logger.Printf("Fetching contributions for %s from %s to %s (credential %d)...",
		username, from.Format(time.RFC3339), to.Format(time.RFC3339), credential)
	var q contributionsByYearQuery
	variables := map[string]interface{}{
		"username": githubv4.String(username),
		"from":     githubv4.DateTime{Time: from},
		"to":       githubv4.DateTime{Time: to},
	}
	if err := g.query(ctx, &q, variables, credential); err != nil {
		return nil, err
	}

	return &domain.YearContributions{
		TotalCommitContributions:     int(q.User.ContributionsCollection.TotalCommitContributions),
		RestrictedContributionsCount: int(q.User.ContributionsCollection.RestrictedContributionsCount),
	}, nil
}

// RateLimitInfo reports the REST core quota for one credential slot.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// VerifyCredential checks one pool slot against the REST rate limit
// endpoint, which authenticates the token without consuming quota.
func (g *GitHubGateway) VerifyCredential(ctx context.Context, credential int) (*RateLimitInfo, error) {
	if credential < 0 || credential >= len(g.restClients) {
		return nil, domain.NewQueryError(domain.KindTransport, fmt.Sprintf("credential index %d out of range", credential), nil)
	}
	limits, _, err := g.restClients[credential].RateLimit.Get(ctx)
	if err != nil {
		return nil, classify(err)
	}
	core := limits.GetCore()
	return &RateLimitInfo{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		ResetAt:   core.Reset.Time,
	}, nil
}
