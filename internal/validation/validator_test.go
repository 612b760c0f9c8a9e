package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grape-build/grape/internal/manifest"
)

func descriptor(options map[string]string, deps ...manifest.Dependency) *manifest.Descriptor {
	base := map[string]string{
		"version":    "1.0",
		"groupid":    "com.example",
		"artifactid": "demo",
		"stage":      "package",
	}
	for k, v := range options {
		base[k] = v
	}
	return &manifest.Descriptor{Options: base, Dependencies: deps}
}

func rules(issues []*Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Rule)
	}
	return out
}

func TestLint(t *testing.T) {
	tests := []struct {
		name  string
		desc  *manifest.Descriptor
		rules []string
	}{
		{
			name: "clean descriptor",
			desc: descriptor(nil,
				manifest.Dependency{GroupID: "org.a", ArtifactID: "lib1", Version: "1.2"},
				manifest.Dependency{GroupID: "org.b", ArtifactID: "lib2", Version: "3.4"}),
		},
		{
			name:  "stage without build",
			desc:  descriptor(map[string]string{"stage": "install"}),
			rules: []string{"stage"},
		},
		{
			name:  "empty identity option",
			desc:  descriptor(map[string]string{"groupid": " "}),
			rules: []string{"empty"},
		},
		{
			name:  "unknown options sorted",
			desc:  descriptor(map[string]string{"verison": "1.1", "name": "x"}),
			rules: []string{"unknown-option", "unknown-option"},
		},
		{
			name: "duplicate coordinate",
			desc: descriptor(nil,
				manifest.Dependency{GroupID: "org.a", ArtifactID: "lib1", Version: "1.2"},
				manifest.Dependency{GroupID: "org.a", ArtifactID: "lib1", Version: "2.0"}),
			rules: []string{"duplicate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Lint(tt.desc)
			assert.Equal(t, tt.rules, rules(issues))
			for _, i := range issues {
				assert.Equal(t, SeverityWarning, i.Severity)
			}
		})
	}
}

func TestLint_Details(t *testing.T) {
	d := descriptor(map[string]string{"verison": "1.1", "name": "x"},
		manifest.Dependency{GroupID: "org.a", ArtifactID: "lib1", Version: "1.2"},
		manifest.Dependency{GroupID: "org.b", ArtifactID: "lib2", Version: "3.4"},
		manifest.Dependency{GroupID: "org.a", ArtifactID: "lib1", Version: "2.0"})

	issues := Lint(d)
	require.Len(t, issues, 3)

	assert.Equal(t, "name", issues[0].Field)
	assert.Equal(t, "verison", issues[1].Field)
	assert.Equal(t, "org.a/lib1:2.0", issues[2].Value)
	assert.Equal(t, "#3 repeats org.a/lib1 from #1 (1.2)", issues[2].Message)
}

func TestCheck(t *testing.T) {
	d := descriptor(map[string]string{"stage": "none"})

	lenient := Check(d, Options{})
	assert.True(t, lenient.IsValid)
	assert.Equal(t, 1, lenient.WarningCount)
	assert.Len(t, lenient.Issues, 1)

	strict := Check(d, Options{TreatWarningsAsErrors: true})
	assert.False(t, strict.IsValid)

	clean := Check(descriptor(nil), Options{TreatWarningsAsErrors: true})
	assert.True(t, clean.IsValid)
	assert.Empty(t, clean.Issues)
}

func TestFormatIssues(t *testing.T) {
	assert.Equal(t, "No issues.", FormatIssues(nil))

	out := FormatIssues([]*Issue{{
		Severity: SeverityWarning,
		Field:    "stage",
		Value:    "none",
		Message:  "no Maven build runs",
	}})
	assert.Equal(t, "Lint completed with 1 issue(s):\n\n1. [WARNING] stage 'none': no Maven build runs\n", out)
}
