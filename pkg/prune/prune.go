// Package prune trims a release down to its newest assets and moves the
// release tag to a new commit.
package prune

import (
	"context"
	"fmt"
	"sort"

	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"github.com/Facets-cloud/nightly-prune/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTag is the release tag pruned when none is given.
	DefaultTag = "nightly"
	// DefaultKeep is the number of newest assets left on the release.
	DefaultKeep = 3
)

// Target names the release to prune and the commit its tag should point at.
type Target struct {
	Repo hosting.Repository
	Tag  string
	SHA  string
}

// Options control a Pruner. Use DefaultOptions for the standard behaviour.
type Options struct {
	Keep   int
	DryRun bool
	// Force allows a non fast-forward tag move.
	Force  bool
	Logger logrus.FieldLogger

	// Progress receives a short message before each API call. Optional.
	Progress interface {
		UpdateMessage(string)
	}
}

// DefaultOptions keeps the three newest assets and logs through the standard logrus logger.
func DefaultOptions() Options {
	return Options{
		Keep:   DefaultKeep,
		Logger: logrus.StandardLogger(),
	}
}

// Result describes what a prune run did (or, for a dry run, would do).
type Result struct {
	Release hosting.Release
	Kept    []hosting.Asset
	Deleted []hosting.Asset
	Ref     string

	// TagMoved is false for dry runs and for runs that failed before the ref update.
	TagMoved bool
	DryRun   bool
}

// Pruner runs the prune sequence against a hosting API.
type Pruner struct {
	api  hosting.API
	opts Options
}

// New returns a Pruner. A nil Logger falls back to the standard logrus logger.
func New(api hosting.API, opts Options) *Pruner {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Pruner{api: api, opts: opts}
}

// Plan orders assets newest first and splits them into the first keep assets
// and the rest. Assets with equal creation times stay in listing order.
// The input slice is not modified.
func Plan(assets []hosting.Asset, keep int) (kept, doomed []hosting.Asset) {
	sorted := make([]hosting.Asset, len(assets))
	copy(sorted, assets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if keep < 0 {
		keep = 0
	}
	if len(sorted) <= keep {
		return sorted, nil
	}
	return sorted[:keep], sorted[keep:]
}

// Prune looks up the release tagged t.Tag, deletes all but its newest assets
// and moves the tag to t.SHA. Steps run strictly in order and the first
// failure stops the run.
func (p *Pruner) Prune(ctx context.Context, t Target) (*Result, error) {
	if err := p.validate(t); err != nil {
		return nil, err
	}

	log := p.opts.Logger.WithFields(logrus.Fields{
		"repo": t.Repo.String(),
		"tag":  t.Tag,
	})
	result := &Result{Ref: hosting.TagRef(t.Tag), DryRun: p.opts.DryRun}

	p.progress(fmt.Sprintf("🔎 Looking up release %q in %s...", t.Tag, t.Repo))
	rel, err := p.api.GetReleaseByTag(ctx, t.Repo, t.Tag)
	if err != nil {
		if errors.Is(err, hosting.ErrNotFound) {
			return nil, &NotFoundError{Repo: t.Repo, Tag: t.Tag, Err: err}
		}
		return nil, errors.Wrap(err, "resolve release")
	}
	result.Release = rel
	log = log.WithField("release_id", rel.ID)
	log.Debug("resolved release")

	p.progress(fmt.Sprintf("📦 Listing assets of release %d...", rel.ID))
	assets, err := p.api.ListReleaseAssets(ctx, t.Repo, rel.ID)
	if err != nil {
		return result, errors.Wrap(err, "list release assets")
	}

	kept, doomed := Plan(assets, p.opts.Keep)
	result.Kept = kept
	log.WithFields(logrus.Fields{
		"assets": len(assets),
		"keep":   len(kept),
		"delete": len(doomed),
	}).Info("planned asset pruning")

	if p.opts.DryRun {
		result.Deleted = doomed
		for _, a := range doomed {
			log.WithFields(assetFields(a)).Info("dry run: would delete asset")
		}
		log.WithField("sha", t.SHA).Info("dry run: would move tag")
		return result, nil
	}

	for _, a := range doomed {
		p.progress(fmt.Sprintf("🗑️  Deleting %s...", a.Name))
		if err := p.api.DeleteReleaseAsset(ctx, t.Repo, a.ID); err != nil {
			log.WithFields(assetFields(a)).WithError(err).Error("asset deletion failed")
			return result, &DeletionError{Asset: a, Err: err}
		}
		result.Deleted = append(result.Deleted, a)
		log.WithFields(assetFields(a)).Info("deleted asset")
	}

	p.progress(fmt.Sprintf("🏷️  Moving %s to %s...", result.Ref, utils.ShortSHA(t.SHA)))
	if err := p.api.UpdateRef(ctx, t.Repo, result.Ref, t.SHA, p.opts.Force); err != nil {
		return result, &RefUpdateError{Ref: result.Ref, SHA: t.SHA, Err: err}
	}
	result.TagMoved = true
	log.WithField("sha", t.SHA).Info("moved tag")

	return result, nil
}

func (p *Pruner) validate(t Target) error {
	if t.Repo.Owner == "" || t.Repo.Name == "" {
		return errors.New("repository owner and name are required")
	}
	if t.Tag == "" {
		return errors.New("tag is required")
	}
	if err := utils.ValidateSHA(t.SHA); err != nil {
		return err
	}
	if p.opts.Keep < 0 {
		return errors.Errorf("keep count must be non-negative, got %d", p.opts.Keep)
	}
	return nil
}

func (p *Pruner) progress(msg string) {
	if p.opts.Progress != nil {
		p.opts.Progress.UpdateMessage(msg)
	}
}

func assetFields(a hosting.Asset) logrus.Fields {
	return logrus.Fields{
		"asset_id":   a.ID,
		"asset":      a.Name,
		"created_at": a.CreatedAt,
	}
}
