package github

import (
	"context"
	"fmt"
	"path"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// maxFileSize caps fetched blobs; larger files are skipped.
const maxFileSize = 512 * 1024

// textExtensions are the file types worth indexing from a repository.
var textExtensions = map[string]bool{
	".md": true, ".markdown": true, ".txt": true, ".rst": true,
	".go": true, ".py": true, ".js": true, ".ts": true,
	".yaml": true, ".yml": true, ".toml": true, ".json": true,
}

// api is the subset of Client the ingestor needs, extracted so tests can
// substitute a fake.
type api interface {
	GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error)
	GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	ListIssues(ctx context.Context, owner, repo string, opts *gh.IssueListByRepoOptions) ([]*gh.Issue, error)
}

// Ingestor pulls repository files and issues into a collection.
type Ingestor struct {
	client    api
	documents driving.DocumentService
}

// NewIngestor creates an ingestor over an authenticated client.
func NewIngestor(client api, documents driving.DocumentService) *Ingestor {
	return &Ingestor{
		client:    client,
		documents: documents,
	}
}

// Result summarises one ingest run.
type Result struct {
	Files   int
	Issues  int
	Skipped int
}

// IngestRepo indexes the text files of a repository's default branch
// plus its issues. Individual file failures are logged and skipped so
// one bad blob does not abort the run.
func (in *Ingestor) IngestRepo(ctx context.Context, owner, repo, collection string) (*Result, error) {
	repository, err := in.client.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetch repository %s/%s: %w", owner, repo, err)
	}
	ref := repository.GetDefaultBranch()

	tree, err := in.client.GetTree(ctx, owner, repo, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch tree %s/%s@%s: %w", owner, repo, ref, err)
	}

	result := &Result{}
	fullName := owner + "/" + repo

	for _, entry := range tree.Entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.GetType() != "blob" || !indexable(entry.GetPath(), entry.GetSize()) {
			result.Skipped++
			continue
		}

		content, err := in.client.GetFileContent(ctx, owner, repo, entry.GetPath(), ref)
		if err != nil {
			logger.Warn("skipping %s/%s: %v", fullName, entry.GetPath(), err)
			result.Skipped++
			continue
		}
		if strings.TrimSpace(content) == "" {
			result.Skipped++
			continue
		}

		metadata := map[string]any{
			"source":    "github",
			"repo":      fullName,
			"path":      entry.GetPath(),
			"ref":       ref,
			"file_type": strings.TrimPrefix(path.Ext(entry.GetPath()), "."),
		}
		if _, err := in.documents.AddText(ctx, content, metadata, collection); err != nil {
			return result, fmt.Errorf("ingest %s/%s: %w", fullName, entry.GetPath(), err)
		}
		result.Files++
	}

	issues, err := in.IngestIssues(ctx, owner, repo, collection)
	if err != nil {
		return result, err
	}
	result.Issues = issues

	logger.Info("ingested %s: %d files, %d issues, %d skipped", fullName, result.Files, result.Issues, result.Skipped)
	return result, nil
}

// IngestIssues indexes every issue (excluding pull requests) as one
// document each and returns the count.
func (in *Ingestor) IngestIssues(ctx context.Context, owner, repo, collection string) (int, error) {
	issues, err := in.client.ListIssues(ctx, owner, repo, &gh.IssueListByRepoOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		return 0, fmt.Errorf("fetch issues %s/%s: %w", owner, repo, err)
	}

	fullName := owner + "/" + repo
	count := 0
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}

		metadata := map[string]any{
			"source":       "github",
			"repo":         fullName,
			"issue_number": issue.GetNumber(),
			"issue_state":  issue.GetState(),
			"url":          issue.GetHTMLURL(),
		}
		if _, err := in.documents.AddText(ctx, formatIssue(issue), metadata, collection); err != nil {
			return count, fmt.Errorf("ingest issue #%d: %w", issue.GetNumber(), err)
		}
		count++
	}
	return count, nil
}

// indexable reports whether a tree entry is worth fetching.
func indexable(filePath string, size int) bool {
	if size > maxFileSize {
		return false
	}
	return textExtensions[strings.ToLower(path.Ext(filePath))]
}

// formatIssue renders an issue as searchable text.
func formatIssue(issue *gh.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Issue #%d: %s\n", issue.GetNumber(), issue.GetTitle())
	fmt.Fprintf(&b, "State: %s\n", issue.GetState())
	if user := issue.GetUser(); user != nil {
		fmt.Fprintf(&b, "Author: %s\n", user.GetLogin())
	}
	if len(issue.Labels) > 0 {
		labels := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			labels = append(labels, label.GetName())
		}
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(labels, ", "))
	}
	if body := issue.GetBody(); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}
