// Package pipeline runs the build step: discover declarations, translate
// them and write the artifact.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/decl2ts/am"
	"github.com/teranos/decl2ts/decl"
	"github.com/teranos/decl2ts/discover/goscan"
	"github.com/teranos/decl2ts/discover/manifest"
	"github.com/teranos/decl2ts/errors"
	"github.com/teranos/decl2ts/logger"
	"github.com/teranos/decl2ts/sink"
	"github.com/teranos/decl2ts/typegen"
	"github.com/teranos/decl2ts/typegen/typescript"
)

// Options configures a pipeline
type Options struct {
	// Dir is the directory patterns are resolved against
	Dir string
	// Patterns are Go package patterns or manifest files (.yaml, .yml, .json, .toml)
	Patterns []string
	Scan     goscan.Options
	Mode     sink.Mode
	Policy   typegen.Policy
	Debounce time.Duration
	// Truncate empties the artifact at the start of every append-mode write,
	// after translation has succeeded
	Truncate bool
}

// Pipeline translates discovered declarations into one artifact
type Pipeline struct {
	opts     Options
	tr       *typegen.Translator
	artifact *sink.Artifact
	log      *zap.SugaredLogger
}

// New creates a pipeline writing TypeScript declarations to artifact
func New(artifact *sink.Artifact, opts Options) *Pipeline {
	if opts.Mode == "" {
		opts.Mode = sink.ModeRewrite
	}
	if opts.Scan.Dir == "" {
		opts.Scan.Dir = opts.Dir
	}
	return &Pipeline{
		opts:     opts,
		tr:       typegen.NewTranslator(typescript.NewGenerator(), opts.Policy),
		artifact: artifact,
		log:      logger.Named("pipeline"),
	}
}

// Option adjusts the options FromConfig derives from configuration
type Option func(*Options)

// WithTruncate sets Options.Truncate
func WithTruncate(truncate bool) Option {
	return func(o *Options) { o.Truncate = truncate }
}

// FromConfig validates cfg and builds a pipeline rooted at dir. A relative
// output directory without a project file resolves against dir.
func FromConfig(cfg *am.Config, dir string, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	artifact, err := sink.New(cfg.Sink(dir))
	if err != nil {
		return nil, err
	}
	o := Options{
		Dir:      dir,
		Patterns: cfg.Discovery.Patterns,
		Scan:     cfg.ScanOptions(dir),
		Mode:     cfg.Mode(),
		Policy:   cfg.TranslationPolicy(),
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return New(artifact, o), nil
}

// Artifact returns the output artifact
func (p *Pipeline) Artifact() *sink.Artifact { return p.artifact }

// Options returns the effective options
func (p *Pipeline) Options() Options { return p.opts }

// Report summarizes one run
type Report struct {
	RunID    string
	Path     string
	Mode     sink.Mode
	Written  int // non-empty top-level blocks
	Bytes    int
	Skipped  []string // top-level declarations that produced no text
	Issues   []*typegen.Issue
	Duration time.Duration
}

// Discover collects declarations from every pattern, in pattern order
func (p *Pipeline) Discover(ctx context.Context) ([]decl.Declaration, error) {
	patterns := p.opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	var decls []decl.Declaration
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if manifest.IsManifestPath(pattern) {
			path := pattern
			if !filepath.IsAbs(path) && p.opts.Dir != "" {
				path = filepath.Join(p.opts.Dir, path)
			}
			found, err := manifest.Load(path)
			if err != nil {
				return nil, err
			}
			decls = append(decls, found...)
			continue
		}

		found, err := goscan.Scan(ctx, p.opts.Scan, pattern)
		if err != nil {
			return nil, err
		}
		decls = append(decls, found...)
	}
	return decls, nil
}

// Run discovers, translates and writes
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	decls, err := p.Discover(ctx)
	if err != nil {
		p.log.Errorw("Discovery failed", "error", err)
		return nil, errors.Wrap(err, "discovery failed")
	}
	return p.Emit(decls)
}

type block struct {
	name string
	kind decl.DeclKind
	text string
}

// translate renders every declaration. The error is non-nil only under the
// strict policy and carries every issue.
func (p *Pipeline) translate(runID string, decls []decl.Declaration) ([]block, *Report, error) {
	report := &Report{RunID: runID, Path: p.artifact.Path(), Mode: p.opts.Mode}

	var strictErr error
	blocks := make([]block, 0, len(decls))
	for _, d := range decls {
		if d == nil {
			continue
		}
		text, err := p.tr.Translate(d)
		if err != nil {
			strictErr = errors.CombineErrors(strictErr, err)
		}
		report.Issues = append(report.Issues, typegen.FindIssues(d)...)

		if text == "" {
			report.Skipped = append(report.Skipped, d.DeclName())
			p.log.Debugw("Skipped declaration",
				logger.FieldRunID, runID,
				logger.FieldDeclaration, d.DeclName(),
				logger.FieldKind, d.Kind().String())
			continue
		}
		blocks = append(blocks, block{name: d.DeclName(), kind: d.Kind(), text: text})
	}
	return blocks, report, strictErr
}

// Render returns the artifact text one run over decls would produce
func (p *Pipeline) Render(decls []decl.Declaration) (string, error) {
	blocks, _, err := p.translate("", decls)
	if err != nil {
		return "", err
	}
	acc := sink.NewAccumulator()
	for _, b := range blocks {
		acc.Add(b.text)
	}
	return acc.String(), nil
}

// Emit translates decls and writes them according to the mode. Under the
// strict policy any issue aborts the run before the artifact is touched,
// truncation included.
func (p *Pipeline) Emit(decls []decl.Declaration) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := logger.ChildLogger(p.log, logger.FieldRunID, runID)

	blocks, report, err := p.translate(runID, decls)
	if err != nil {
		log.Errorw("Strict translation failed",
			logger.FieldIssues, len(report.Issues),
			logger.FieldError, err)
		return report, errors.WithHint(err, "fix the reported declarations or set policy = \"lenient\"")
	}

	if err := p.artifact.Prepare(); err != nil {
		log.Errorw("Failed to prepare output", logger.FieldPath, p.artifact.Dir(), logger.FieldError, err)
		return report, err
	}

	switch p.opts.Mode {
	case sink.ModeAppend:
		if p.opts.Truncate {
			if err := p.artifact.Truncate(); err != nil {
				log.Errorw("Failed to truncate artifact", logger.FieldPath, p.artifact.Path(), logger.FieldError, err)
				return report, err
			}
		}
		for _, b := range blocks {
			n, err := p.artifact.Append(b.text)
			if err != nil {
				log.Errorw("Failed to append declaration",
					logger.FieldDeclaration, b.name,
					logger.FieldPath, p.artifact.Path(),
					logger.FieldError, err)
				return report, errors.Wrapf(err, "%s %s", b.kind, b.name)
			}
			report.Written++
			report.Bytes += n
			log.Debugw("Appended declaration",
				logger.FieldDeclaration, b.name,
				logger.FieldKind, b.kind.String(),
				logger.FieldBytes, n)
		}

	default:
		acc := sink.NewAccumulator()
		for _, b := range blocks {
			acc.Add(b.text)
		}
		n, err := acc.Flush(p.artifact)
		if err != nil {
			log.Errorw("Failed to write artifact", logger.FieldPath, p.artifact.Path(), logger.FieldError, err)
			return report, err
		}
		report.Written = len(blocks)
		report.Bytes = n
		log.Debugw("Replaced artifact", logger.FieldPath, p.artifact.Path(), logger.FieldBytes, n)
	}

	report.Duration = time.Since(start)
	log.Infow("Generated declarations",
		logger.FieldPath, report.Path,
		logger.FieldMode, string(report.Mode),
		logger.FieldWritten, report.Written,
		logger.FieldSkipped, len(report.Skipped),
		logger.FieldIssues, len(report.Issues),
		logger.FieldBytes, report.Bytes,
		logger.FieldDuration, report.Duration)
	return report, nil
}
