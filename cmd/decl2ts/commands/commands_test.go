package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/decl2ts/am"
)

const pointManifest = `
declarations:
  - kind: struct
    name: Point
    fields:
      - {name: x, type: f64}
      - {name: y, type: f64}
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"OUT_DIR", "DECL2TS_OUTPUT_DIR", "DECL2TS_OUTPUT_MODE", "DECL2TS_POLICY"} {
		t.Setenv(name, "")
	}
}

// newTestCmd mirrors the flags main registers on the root command
func newTestCmd(t *testing.T, dir string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().CountP("verbose", "v", "")
	cmd.Flags().Bool("log-json", false, "")
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().StringP("dir", "C", "", "")
	cmd.Flags().Bool("truncate", false, "")
	cmd.Flags().Bool("watch", false, "")
	addPipelineFlags(cmd)

	require.NoError(t, cmd.Flags().Set("dir", dir))
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})
	return cmd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPrepareAndBuildPipeline(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, am.ProjectFile), "[output]\ndir = \"gen\"\n")

	cmd := newTestCmd(t, dir)
	require.NoError(t, Prepare(cmd))
	require.NotNil(t, current)
	assert.Equal(t, dir, current.dir)

	p, err := buildPipeline(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gen", "decl2ts", "generated.ts"), p.Artifact().Path())

	t.Run("out flag wins", func(t *testing.T) {
		out := t.TempDir()
		require.NoError(t, cmd.Flags().Set("out", out))
		defer cmd.Flags().Set("out", "")

		p, err := buildPipeline(cmd, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "decl2ts", "generated.ts"), p.Artifact().Path())
	})

	t.Run("invalid mode", func(t *testing.T) {
		require.NoError(t, cmd.Flags().Set("mode", "sideways"))
		defer cmd.Flags().Set("mode", "")

		_, err := buildPipeline(cmd, nil)
		assert.Error(t, err)
	})

	t.Run("overrides do not leak into loaded config", func(t *testing.T) {
		_, err := buildPipeline(cmd, []string{"decls.yaml"})
		require.NoError(t, err)
		assert.Equal(t, []string{"./..."}, current.cfg.Discovery.Patterns)
	})
}

func TestPrepareExplicitConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "other.toml")
	writeFile(t, path, "policy = \"strict\"\n")

	cmd := newTestCmd(t, dir)
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, Prepare(cmd))
	assert.Equal(t, "strict", current.cfg.Policy)
}

func TestGenerateThenCheck(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "decls.yaml"), pointManifest)

	cmd := newTestCmd(t, dir)
	require.NoError(t, cmd.Flags().Set("out", filepath.Join(dir, "out")))
	require.NoError(t, cmd.Flags().Set("verbose", "2"))
	require.NoError(t, Prepare(cmd))
	assert.Equal(t, 2, current.verbosity, "-vv also prints the resolved settings")

	// nothing generated yet
	assert.Error(t, runCheck(cmd, []string{"decls.yaml"}))

	require.NoError(t, runGenerate(cmd, []string{"decls.yaml"}))
	data, err := os.ReadFile(filepath.Join(dir, "out", "decl2ts", "generated.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export interface Point {\n    x: number;\n    y: number;\n}\n\n", string(data))

	assert.NoError(t, runCheck(cmd, []string{"decls.yaml"}))

	// a second rewrite run leaves the artifact unchanged
	require.NoError(t, runGenerate(cmd, []string{"decls.yaml"}))
	again, err := os.ReadFile(filepath.Join(dir, "out", "decl2ts", "generated.ts"))
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestWriteConfig(t *testing.T) {
	cfg := &am.Config{
		Output: am.OutputConfig{Dir: "web/src", Mode: "rewrite"},
		Policy: "strict",
	}

	tests := []struct {
		format string
		want   []string
	}{
		{"toml", []string{"policy = 'strict'", "[output]", "dir = 'web/src'"}},
		{"json", []string{`"policy": "strict"`, `"dir": "web/src"`}},
		{"yaml", []string{"policy: strict", "dir: web/src"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeConfig(&buf, cfg, tt.format))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
			assert.NotContains(t, buf.String(), "ProjectRoot")
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		err := writeConfig(&bytes.Buffer{}, cfg, "xml")
		assert.ErrorContains(t, err, "unsupported format: xml")
	})
}

func TestGenerateTruncateKeepsArtifactOnStrictFailure(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "decls.yaml"), pointManifest)
	writeFile(t, filepath.Join(dir, "bad.yaml"), "declarations:\n  - {kind: enum, name: Color}\n")
	artifact := filepath.Join(dir, "out", "decl2ts", "generated.ts")

	cmd := newTestCmd(t, dir)
	require.NoError(t, cmd.Flags().Set("out", filepath.Join(dir, "out")))
	require.NoError(t, Prepare(cmd))
	require.NoError(t, runGenerate(cmd, []string{"decls.yaml"}))
	before, err := os.ReadFile(artifact)
	require.NoError(t, err)

	require.NoError(t, cmd.Flags().Set("truncate", "true"))
	require.NoError(t, cmd.Flags().Set("mode", "append"))
	require.NoError(t, cmd.Flags().Set("policy", "strict"))
	err = runGenerate(cmd, []string{"decls.yaml", "bad.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported declaration kind enum")

	after, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	// A lenient truncating append run replaces rather than doubles
	require.NoError(t, cmd.Flags().Set("policy", "lenient"))
	require.NoError(t, runGenerate(cmd, []string{"decls.yaml"}))
	after, err = os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestDefaultOutputFollowsDirFlag(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cmd := newTestCmd(t, dir)
	require.NoError(t, Prepare(cmd))
	if current.cfg.ProjectRoot != "" {
		t.Skip("a decl2ts.toml above the temp dir anchors output")
	}

	p, err := buildPipeline(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "decl2ts", "generated.ts"), p.Artifact().Path())
	assert.False(t, p.Options().Truncate)
}
