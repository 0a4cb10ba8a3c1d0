package themepack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"

	"github.com/feedkit/feedkit/internal/validation"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

var nonAlphanumericExpr = regexp.MustCompile(`[^a-z0-9]+`)

// FetchOptions controls how a pack repository is cloned.
type FetchOptions struct {
	Branch string
	Depth  int
}

// Install clones url into a directory under root, validates every pack it
// contains and records them in idx. The index is saved on success.
func Install(ctx context.Context, idx *Index, root, url string, opts FetchOptions) ([]Installed, error) {
	if !validation.ValidGitURL(url) {
		return nil, feederrors.NewValidationError("url", fmt.Sprintf("invalid git url %q", url), nil)
	}

	dest := filepath.Join(root, repoDirName(url))
	commit, err := Fetch(ctx, url, dest, opts)
	if err != nil {
		return nil, err
	}

	packs, err := LoadPaths([]string{dest})
	if err != nil {
		_ = os.RemoveAll(dest)
		return nil, err
	}
	if len(packs) == 0 {
		_ = os.RemoveAll(dest)
		return nil, fmt.Errorf("repository %s contains no theme packs", url)
	}

	now := time.Now().UTC()
	installed := make([]Installed, 0, len(packs))
	for _, pack := range packs {
		entry := Installed{
			ID:          uuid.NewString(),
			Name:        pack.Name,
			Version:     pack.Version,
			URL:         url,
			Path:        pack.Path,
			Commit:      commit,
			InstalledAt: now,
		}
		idx.Put(entry)
		installed = append(installed, entry)
	}

	if err := idx.Save(); err != nil {
		return nil, err
	}
	return installed, nil
}

// Uninstall removes the pack called name from idx and deletes its file.
func Uninstall(idx *Index, name string) error {
	entry, err := idx.Get(name)
	if err != nil {
		return err
	}
	if err := idx.Remove(name); err != nil {
		return err
	}
	if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", entry.Path, err)
	}
	return idx.Save()
}

// Fetch clones url into dest, replacing any previous checkout, and returns
// the checked out commit hash.
func Fetch(ctx context.Context, url, dest string, opts FetchOptions) (string, error) {
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("clear %s: %w", dest, err)
	}

	cloneOpts := &git.CloneOptions{URL: url}
	if opts.Depth > 0 {
		cloneOpts.Depth = opts.Depth
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dest, false, cloneOpts)
	if err != nil {
		_ = os.RemoveAll(dest)
		return "", fmt.Errorf("clone %s: %w", url, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD of %s: %w", url, err)
	}
	return head.Hash().String(), nil
}

// repoDirName derives a directory name from a repository URL.
func repoDirName(url string) string {
	base := url
	if idx := strings.LastIndexAny(base, "/:"); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".git")

	name := strings.Trim(nonAlphanumericExpr.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if name == "" {
		name = "pack-" + uuid.NewString()[:8]
	}
	return name
}
