package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// GetPullRequest fetches a single pull request by number
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	endpoint := fmt.Sprintf("GET /repos/%s/%s/pulls/%d", owner, repo, number)

	slog.Debug("GitHub API: Getting PR", "owner", owner, "repo", repo, "pr", number)
	pr, resp, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, newFetchError(endpoint, resp, err)
	}

	record := fromGitHub(pr)
	return &record, nil
}

// ListPullRequestsPage fetches one page of pull requests in any state that match filter.
// hasMore is false once a page comes back shorter than PageSize.
func (c *Client) ListPullRequestsPage(ctx context.Context, owner, repo string, filter Filter, page int) ([]PullRequest, bool, error) {
	opts := &github.PullRequestListOptions{
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: PageSize,
			Page:    page,
		},
	}

	// head takes the owner-qualified label, base takes the bare branch name
	switch filter.Field {
	case FilterHead:
		opts.Head = filter.Value
	case FilterBase:
		opts.Base = filter.Value
	default:
		return nil, false, fmt.Errorf("unsupported pull request filter %q", filter.Field)
	}

	endpoint := fmt.Sprintf("GET /repos/%s/%s/pulls?state=all&%s=%s&page=%d", owner, repo, filter.Field, filter.Value, page)

	slog.Debug("GitHub API: Listing pull requests", "owner", owner, "repo", repo, string(filter.Field), filter.Value, "state", "all", "page", page)
	prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, false, newFetchError(endpoint, resp, err)
	}

	return convertPage(prs), len(prs) == PageSize, nil
}

// ListOpenPullRequests fetches every open pull request in the repository
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	prs, err := Paginate(func(page int) ([]PullRequest, bool, error) {
		opts := &github.PullRequestListOptions{
			State: "open",
			ListOptions: github.ListOptions{
				PerPage: PageSize,
				Page:    page,
			},
		}
		endpoint := fmt.Sprintf("GET /repos/%s/%s/pulls?state=open&page=%d", owner, repo, page)

		slog.Debug("GitHub API: Listing pull requests", "owner", owner, "repo", repo, "state", "open", "page", page)
		prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, false, newFetchError(endpoint, resp, err)
		}
		return convertPage(prs), len(prs) == PageSize, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}

	return prs, nil
}

// Paginate calls fetch with page numbers starting at 1 until it reports no more pages
func Paginate[T any](fetch func(page int) ([]T, bool, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, hasMore, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if !hasMore {
			return all, nil
		}
	}
}

func convertPage(prs []*github.PullRequest) []PullRequest {
	records := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		records = append(records, fromGitHub(pr))
	}
	return records
}

func fromGitHub(pr *github.PullRequest) PullRequest {
	record := PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		State:     pr.GetState(),
		Draft:     pr.GetDraft(),
		HeadLabel: pr.GetHead().GetLabel(),
		HeadRef:   pr.GetHead().GetRef(),
		BaseLabel: pr.GetBase().GetLabel(),
		BaseRef:   pr.GetBase().GetRef(),
	}
	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.Time
		record.MergedAt = &mergedAt
	}
	return record
}
