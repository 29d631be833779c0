package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/noelse/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Root: "proj",
		Files: []model.FileResult{
			{
				Path: "src/a.js",
				Diagnostics: []model.Diagnostic{
					{Path: "src/a.js", Rule: "no-else-after-jump", Message: "msg one", Line: 3, Column: 5,
						Fix: &model.Fix{Start: 1, End: 2}},
					{Path: "src/a.js", Rule: "no-else-after-jump", Message: "msg two", Line: 9, Column: 1},
				},
			},
			{Path: "src/b.js"},
		},
	}
}

func TestReportPlain(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(false).Report(&buf, sampleReport()))

	want := "src/a.js:3:5: msg one [no-else-after-jump] (fixable)\n" +
		"src/a.js:9:1: msg two [no-else-after-jump]\n" +
		"2 problems (1 fixable with --fix)\n"
	assert.Equal(t, want, buf.String())
}

func TestReportColored(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(true).Report(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "msg one")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestReportClean(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(false).Report(&buf, &model.Report{Files: []model.FileResult{{Path: "x.js"}}}))
	assert.Empty(t, buf.String())
}

func TestSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		problems, fixable int
		want              string
	}{
		{1, 0, "1 problem"},
		{1, 1, "1 problem (1 fixable with --fix)"},
		{4, 2, "4 problems (2 fixable with --fix)"},
		{0, 0, "0 problems"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Summary(tt.problems, tt.fixable))
	}
}
