package prune

import (
	"fmt"

	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
)

// NotFoundError reports that no release carries the requested tag.
type NotFoundError struct {
	Repo hosting.Repository
	Tag  string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no release tagged %q in %s: %v", e.Tag, e.Repo, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// DeletionError reports a failed asset deletion. Deletions after it were not attempted.
type DeletionError struct {
	Asset hosting.Asset
	Err   error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("delete asset %q (id %d): %v", e.Asset.Name, e.Asset.ID, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// RefUpdateError reports that the tag could not be moved to the new commit.
type RefUpdateError struct {
	Ref string
	SHA string
	Err error
}

func (e *RefUpdateError) Error() string {
	return fmt.Sprintf("move %s to %s: %v", e.Ref, e.SHA, e.Err)
}

func (e *RefUpdateError) Unwrap() error { return e.Err }
