package pipeline

import (
	"context"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/decl2ts/errors"
)

// Check renders the current sources in memory and compares the result with
// the artifact on disk. It returns the unified diff and an error marked
// ErrOutOfDate when they differ. Nothing is written.
func (p *Pipeline) Check(ctx context.Context) (string, error) {
	decls, err := p.Discover(ctx)
	if err != nil {
		return "", errors.Wrap(err, "discovery failed")
	}

	want, err := p.Render(decls)
	if err != nil {
		return "", err
	}
	have, err := p.artifact.Read()
	if err != nil {
		return "", err
	}

	if have == want {
		p.log.Debugw("Artifact up to date", "path", p.artifact.Path(), "bytes", len(have))
		return "", nil
	}

	diff, err := Diff(have, want, p.artifact.Path())
	if err != nil {
		return "", errors.Wrap(err, "failed to diff artifact")
	}
	p.log.Infow("Artifact out of date", "path", p.artifact.Path())

	return diff, errors.WithHint(
		errors.WithDetail(errors.Mark(errors.Newf("%s is out of date", p.artifact.Path()), errors.ErrOutOfDate), diff),
		"run: decl2ts generate")
}

// Diff returns a unified diff from the artifact content to the fresh rendering
func Diff(have, want, path string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(have),
		B:        difflib.SplitLines(want),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
}
