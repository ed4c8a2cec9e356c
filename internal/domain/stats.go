// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepositoryStats summarizes the repositories a user owns.
type RepositoryStats struct {
	TotalRepositories int      `json:"total_repositories"`
	TotalStargazers   int      `json:"total_stargazers"`
	TotalForks        int      `json:"total_forks"`
	Languages         []string `json:"languages"`
}

// ActivityStats summarizes a user's recent contribution activity together
// with the account metadata needed by the all-time commit sweep.
type ActivityStats struct {
	CreatedAt                           time.Time `json:"created_at"`
	TotalCommitContributions            int       `json:"total_commit_contributions"`
	TotalPullRequestReviewContributions int       `json:"total_pull_request_review_contributions"`
	TotalFollowers                      int       `json:"total_followers"`
	TotalOrganizations                  int       `json:"total_organizations"`
}

// IssueStats holds a user's issue counts by state.
type IssueStats struct {
	OpenIssues   int `json:"open_issues"`
	ClosedIssues int `json:"closed_issues"`
}

// PullRequestStats holds a user's pull request count.
type PullRequestStats struct {
	TotalPullRequests int `json:"total_pull_requests"`
}

// YearContributions holds the commit contributions made within one
// calendar-year window.
type YearContributions struct {
	TotalCommitContributions     int `json:"total_commit_contributions"`
	RestrictedContributionsCount int `json:"restricted_contributions_count"`
}

// Total is the number of commits this window adds to the all-time sum.
func (c YearContributions) Total() int {
	return c.TotalCommitContributions + c.RestrictedContributionsCount
}

// UserProfile is the composite built once all four facet queries succeed.
// It is never returned with a facet missing.
type UserProfile struct {
	Username       string           `json:"username"`
	Repository     RepositoryStats  `json:"repository"`
	Activity       ActivityStats    `json:"activity"`
	Issue          IssueStats       `json:"issue"`
	PullRequest    PullRequestStats `json:"pull_request"`
	AllTimeCommits int              `json:"all_time_commits"`
}
