package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/noelse/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/app.js", "src/app.js"},
		{"apostrophes", "Unnecessary 'else'", "Unnecessary 'else'"},
		{"rule name", "no-else-after-jump", "no-else-after-jump"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	rep := &model.Report{
		Root: "web",
		Files: []model.FileResult{
			{
				Path:     "src/app.js",
				Language: "javascript",
				Diagnostics: []model.Diagnostic{
					{
						Rule:    "no-else-after-jump",
						Message: "Unnecessary 'else' after a branch that always exits.",
						Line:    4,
						Column:  5,
						Fix:     &model.Fix{Start: 40, End: 60, Text: "x();"},
					},
					{
						Rule:    "no-else-after-jump",
						Message: "Unnecessary 'else' after a branch that always exits.",
						Line:    12,
						Column:  3,
					},
				},
			},
			{Path: "src/clean.ts", Language: "typescript"},
		},
	}

	got := Encode(rep)
	lines := strings.Split(got, "\n")

	want := []string{
		"root: web",
		"files: 2",
		"problems: 2",
		"fixable: 1",
		"diagnostics[2]{file,line,column,rule,fixable,message}:",
		`  src/app.js,4,5,no-else-after-jump,yes,Unnecessary 'else' after a branch that always exits.`,
		`  src/app.js,12,3,no-else-after-jump,no,Unnecessary 'else' after a branch that always exits.`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeFixed(t *testing.T) {
	t.Parallel()

	rep := &model.Report{
		Root: "web",
		Files: []model.FileResult{
			{Path: "a.js", Original: []byte("a"), Fixed: []byte("b"), Passes: 2},
			{Path: "b.js"},
		},
	}

	got := Encode(rep)
	if !strings.HasSuffix(got, "fixed[1]{file,passes}:\n  a.js,2") {
		t.Errorf("expected fixed section, got:\n%s", got)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{Root: "empty"})
	if !strings.Contains(got, "problems: 0") {
		t.Errorf("expected zero problems, got:\n%s", got)
	}
	if !strings.Contains(got, "diagnostics[0]{file,line,column,rule,fixable,message}:") {
		t.Errorf("expected empty diagnostics section, got:\n%s", got)
	}
	if strings.Contains(got, "fixed[") {
		t.Errorf("unexpected fixed section, got:\n%s", got)
	}
}
