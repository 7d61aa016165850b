package hosting

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned (wrapped) when the hosting API answers 404.
var ErrNotFound = errors.New("not found")

// Repository identifies a hosted repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Release is a tagged publication point that carries assets.
type Release struct {
	ID      int64
	TagName string
	Name    string
}

// Asset is a binary file attached to a release. Its content is never read.
type Asset struct {
	ID        int64
	Name      string
	Size      int64
	CreatedAt time.Time
}

// API is the subset of the hosting service used to prune a release.
type API interface {
	GetReleaseByTag(ctx context.Context, repo Repository, tag string) (Release, error)
	ListReleaseAssets(ctx context.Context, repo Repository, releaseID int64) ([]Asset, error)
	DeleteReleaseAsset(ctx context.Context, repo Repository, assetID int64) error
	// UpdateRef moves ref (for example "tags/nightly") to sha.
	UpdateRef(ctx context.Context, repo Repository, ref, sha string, force bool) error
}

// TagRef returns the git reference name for a tag, as accepted by UpdateRef.
func TagRef(tag string) string {
	return "tags/" + tag
}
