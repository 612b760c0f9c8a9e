package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grape-build/grape/internal/config"
	"github.com/grape-build/grape/internal/manifest"
	"github.com/grape-build/grape/internal/maven"
	"github.com/grape-build/grape/internal/pipeline"
	"github.com/grape-build/grape/internal/pom"
)

const template = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <dependencies/>
</project>
`

func manifestWithStage(stage string) string {
	return "[Config]\n" +
		"version=1.0\n" +
		"groupid=com.example\n" +
		"artifactid=demo\n" +
		"stage=" + stage + "\n\n" +
		"[Dependencies]\n" +
		"org.a;lib1;1.2;\n" +
		"org.b;lib2;3.4;\n"
}

// fakeRunner records Maven invocations instead of spawning a process.
type fakeRunner struct {
	calls []call
	err   error
}

type call struct {
	dir, pomFile string
	goals        []string
}

func (f *fakeRunner) Run(_ context.Context, dir, pomFile string, goals []string) error {
	f.calls = append(f.calls, call{dir: dir, pomFile: pomFile, goals: goals})
	return f.err
}

// recordingLogger keeps every line for assertions.
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(level, msg string, args ...interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) { l.record("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...interface{})  { l.record("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...interface{})  { l.record("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...interface{}) { l.record("ERROR", msg, args...) }

type fixture struct {
	manifestPath string
	settings     *config.Settings
	runner       *fakeRunner
	logger       *recordingLogger
}

func newFixture(t *testing.T, manifestContent string) *fixture {
	t.Helper()
	root := t.TempDir()

	templateDir := filepath.Join(root, "grape-plain")
	require.NoError(t, os.MkdirAll(templateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "pom.xml"), []byte(template), 0644))

	manifestPath := filepath.Join(root, "build.grape")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestContent), 0644))

	settings := config.Default()
	settings.TemplateDir = templateDir

	return &fixture{
		manifestPath: manifestPath,
		settings:     settings,
		runner:       &fakeRunner{},
		logger:       &recordingLogger{},
	}
}

func (f *fixture) options() pipeline.Options {
	return pipeline.Options{
		ManifestPath: f.manifestPath,
		Settings:     f.settings,
		Runner:       f.runner,
		Logger:       f.logger,
	}
}

func TestRun_Package(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))

	result, err := pipeline.Run(context.Background(), f.options())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, f.settings.OutputPath(), result.OutputPath)
	assert.Equal(t, 2, result.Dependencies)
	assert.Equal(t, "package", result.Stage)
	assert.True(t, result.Invoked)
	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Issues)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, call{
		dir:     f.settings.TemplateDir,
		pomFile: "pom-build.xml",
		goals:   []string{"clean", "package"},
	}, f.runner.calls[0])

	doc, err := pom.Load(result.OutputPath)
	require.NoError(t, err)
	deps, err := doc.Dependencies(pom.MavenNamespace)
	require.NoError(t, err)
	assert.Equal(t, []manifest.Dependency{
		{GroupID: "org.a", ArtifactID: "lib1", Version: "1.2"},
		{GroupID: "org.b", ArtifactID: "lib2", Version: "3.4"},
	}, deps)
	assert.Equal(t, "demo", pom.FindChild(doc.Root(), pom.MavenNamespace, "artifactId").Text())

	// The template itself is left alone.
	data, err := os.ReadFile(f.settings.TemplatePath())
	require.NoError(t, err)
	assert.Equal(t, template, string(data))
}

func TestRun_Deploy(t *testing.T) {
	f := newFixture(t, manifestWithStage("deploy"))

	_, err := pipeline.Run(context.Background(), f.options())
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{"clean", "deploy"}, f.runner.calls[0].goals)
}

func TestRun_StageWithoutBuild(t *testing.T) {
	f := newFixture(t, manifestWithStage("none"))

	result, err := pipeline.Run(context.Background(), f.options())
	require.NoError(t, err)

	assert.False(t, result.Invoked)
	assert.Empty(t, f.runner.calls)
	assert.FileExists(t, result.OutputPath)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "stage", result.Issues[0].Rule)
}

func TestRun_BuildFailure(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))
	f.runner.err = &maven.ExitError{Code: 3, Args: []string{"clean", "package"}}

	result, err := pipeline.Run(context.Background(), f.options())
	require.Error(t, err)
	require.NotNil(t, result)

	var exitErr *maven.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, 3, maven.ExitCode(err))
	assert.True(t, result.Invoked)
}

func TestRun_ManifestNotFound(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))
	f.manifestPath = filepath.Join(t.TempDir(), "missing.grape")
	// A template that cannot be read proves the transform step never runs.
	require.NoError(t, os.Remove(f.settings.TemplatePath()))

	result, err := pipeline.Run(context.Background(), f.options())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, manifest.ErrManifestNotFound)

	assert.NoFileExists(t, f.settings.OutputPath())
	assert.Empty(t, f.runner.calls)
}

func TestRun_MalformedManifest(t *testing.T) {
	f := newFixture(t, "[Config]\nversion=1\ngroupid=g\nartifactid=a\nstage=package\n[Dependencies]\norg.a;lib1\n")

	_, err := pipeline.Run(context.Background(), f.options())

	var malformed *manifest.MalformedDependencyError
	require.True(t, errors.As(err, &malformed))
	assert.NoFileExists(t, f.settings.OutputPath())
	assert.Empty(t, f.runner.calls)
}

func TestRun_MissingDependenciesElement(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))
	require.NoError(t, os.WriteFile(f.settings.TemplatePath(),
		[]byte(`<project xmlns="http://maven.apache.org/POM/4.0.0"/>`), 0644))

	_, err := pipeline.Run(context.Background(), f.options())
	assert.ErrorIs(t, err, pom.ErrMissingDependenciesElement)
	assert.NoFileExists(t, f.settings.OutputPath())
	assert.Empty(t, f.runner.calls)
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))

	var out bytes.Buffer
	opts := f.options()
	opts.DryRun = true
	opts.Stdout = &out

	result, err := pipeline.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, result.OutputPath)
	assert.False(t, result.Invoked)
	assert.Empty(t, f.runner.calls)
	assert.NoFileExists(t, f.settings.OutputPath())
	assert.Contains(t, out.String(), "<artifactId>lib2</artifactId>")
	assert.Contains(t, out.String(), "<scope>compile</scope>")
}

func TestRun_Summary(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))
	f.settings.ReportDir = filepath.Join(t.TempDir(), "reports")

	result, err := pipeline.Run(context.Background(), f.options())
	require.NoError(t, err)
	require.NotEmpty(t, result.SummaryPath)

	data, err := os.ReadFile(result.SummaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), result.RunID)
	assert.Contains(t, string(data), "org.b/lib2:3.4")
	assert.True(t, strings.HasPrefix(filepath.Base(result.SummaryPath), "build_summary_"))
}

func TestRun_LogsProgress(t *testing.T) {
	f := newFixture(t, manifestWithStage("package"))

	_, err := pipeline.Run(context.Background(), f.options())
	require.NoError(t, err)

	assert.Contains(t, f.logger.lines, "DEBUG org.a/lib1:1.2")
	assert.Contains(t, f.logger.lines, "INFO building project (package)...")
}
