package hosting

import (
	"context"
	"net/http"

	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"
)

// assetsPerPage is the largest page size the releases API accepts.
const assetsPerPage = 100

// GitHub implements API on top of a go-github client.
type GitHub struct {
	client *github.Client
}

// NewGitHub wraps an already configured client (auth, base URL).
func NewGitHub(client *github.Client) *GitHub {
	return &GitHub{client: client}
}

func (g *GitHub) GetReleaseByTag(ctx context.Context, repo Repository, tag string) (Release, error) {
	rel, resp, err := g.client.Repositories.GetReleaseByTag(ctx, repo.Owner, repo.Name, tag)
	if err != nil {
		return Release{}, apiError(resp, err, "get release by tag %q in %s", tag, repo)
	}
	return Release{
		ID:      rel.GetID(),
		TagName: rel.GetTagName(),
		Name:    rel.GetName(),
	}, nil
}

// ListReleaseAssets walks every page of the release's assets and returns them
// in the order the API lists them.
func (g *GitHub) ListReleaseAssets(ctx context.Context, repo Repository, releaseID int64) ([]Asset, error) {
	opts := &github.ListOptions{PerPage: assetsPerPage}
	var assets []Asset
	for {
		page, resp, err := g.client.Repositories.ListReleaseAssets(ctx, repo.Owner, repo.Name, releaseID, opts)
		if err != nil {
			return nil, apiError(resp, err, "list assets of release %d in %s", releaseID, repo)
		}
		for _, a := range page {
			assets = append(assets, Asset{
				ID:        a.GetID(),
				Name:      a.GetName(),
				Size:      int64(a.GetSize()),
				CreatedAt: a.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return assets, nil
}

func (g *GitHub) DeleteReleaseAsset(ctx context.Context, repo Repository, assetID int64) error {
	resp, err := g.client.Repositories.DeleteReleaseAsset(ctx, repo.Owner, repo.Name, assetID)
	if err != nil {
		return apiError(resp, err, "delete asset %d in %s", assetID, repo)
	}
	return nil
}

func (g *GitHub) UpdateRef(ctx context.Context, repo Repository, ref, sha string, force bool) error {
	r := &github.Reference{
		Ref:    github.String(ref),
		Object: &github.GitObject{SHA: github.String(sha)},
	}
	_, resp, err := g.client.Git.UpdateRef(ctx, repo.Owner, repo.Name, r, force)
	if err != nil {
		return apiError(resp, err, "update ref %s in %s to %s", ref, repo, sha)
	}
	return nil
}

// CurrentUser returns the login of the user the client authenticates as.
func (g *GitHub) CurrentUser(ctx context.Context) (string, error) {
	user, resp, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return "", apiError(resp, err, "get authenticated user")
	}
	return user.GetLogin(), nil
}

// apiError maps a 404 onto ErrNotFound and wraps everything else.
func apiError(resp *github.Response, err error, format string, args ...interface{}) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
