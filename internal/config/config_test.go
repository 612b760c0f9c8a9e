package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, "grape-plain", s.TemplateDir)
	assert.Equal(t, "pom.xml", s.TemplateFile)
	assert.Equal(t, "pom-build.xml", s.OutputFile)
	assert.Equal(t, "http://maven.apache.org/POM/4.0.0", s.Namespace)
	assert.Equal(t, ";", s.Delimiter)
	assert.Equal(t, 2, s.Indent)
	assert.Equal(t, "mvn", s.MavenBinary)
	assert.Empty(t, s.MavenArgs)
	assert.Empty(t, s.ReportDir)

	assert.Equal(t, filepath.Join("grape-plain", "pom.xml"), s.TemplatePath())
	assert.Equal(t, filepath.Join("grape-plain", "pom-build.xml"), s.OutputPath())
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `
template_dir: templates/api
delimiter: "|"
indent: 4
maven_args: ["-B", "-q"]
report_dir: reports
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "templates/api", s.TemplateDir)
	assert.Equal(t, "|", s.Delimiter)
	assert.Equal(t, 4, s.Indent)
	assert.Equal(t, []string{"-B", "-q"}, s.MavenArgs)
	assert.Equal(t, "reports", s.ReportDir)

	// Unset keys fall back to defaults.
	assert.Equal(t, "pom.xml", s.TemplateFile)
	assert.Equal(t, "mvn", s.MavenBinary)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad yaml", content: "indent: [", want: "failed to parse config file"},
		{name: "negative indent", content: "indent: -1", want: "indent must not be negative"},
		{name: "output over template", content: "output_file: pom.xml", want: "output_file must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, t.TempDir(), tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "custom.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("defaults without grape.yaml", func(t *testing.T) {
		t.Chdir(t.TempDir())

		s, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default(), s)
	})

	t.Run("grape.yaml in working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeSettings(t, dir, "template_dir: other\n")
		t.Chdir(dir)

		s, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "other", s.TemplateDir)
	})
}
