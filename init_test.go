package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/phobologic/noelse/internal/lang"
	"github.com/phobologic/noelse/internal/rule"
)

func lintFlagSet() *pflag.FlagSet {
	var discard bytes.Buffer
	return newRootCmd(&discard, &discard).Flags()
}

func TestUsageSectionListsEveryFlag(t *testing.T) {
	t.Parallel()
	flags := lintFlagSet()
	section := usageSection(flags)

	flags.VisitAll(func(f *pflag.Flag) {
		if !strings.Contains(section, "--"+f.Name+"`") {
			t.Errorf("section does not document --%s", f.Name)
		}
		if f.Shorthand != "" && !strings.Contains(section, "`-"+f.Shorthand+", --"+f.Name+"`") {
			t.Errorf("section does not show -%s for --%s", f.Shorthand, f.Name)
		}
	})
	if !strings.Contains(section, "(default `1000000`)") {
		t.Error("section misses the max-file-size default")
	}
}

func TestUsageSectionListsLanguages(t *testing.T) {
	t.Parallel()
	section := usageSection(lintFlagSet())

	for _, name := range lang.Names() {
		if !strings.Contains(section, "- `"+name+"`: ") {
			t.Errorf("section misses language %s", name)
		}
		for _, ext := range lang.Languages[name].Extensions {
			if !strings.Contains(section, "`"+ext+"`") {
				t.Errorf("section misses extension %s", ext)
			}
		}
	}
	if !strings.Contains(section, "`"+rule.Name+"`") || !strings.Contains(section, rule.Message) {
		t.Error("section does not name the rule")
	}
	if !strings.HasPrefix(section, sectionStart+"\n") || !strings.HasSuffix(section, "\n"+sectionEnd) {
		t.Errorf("section is not wrapped in markers:\n%s", section)
	}
}

func TestSpliceSection(t *testing.T) {
	t.Parallel()
	section := sectionStart + "\nnew\n" + sectionEnd

	cases := []struct {
		name    string
		doc     string
		want    string
		wantErr bool
	}{
		{
			name: "empty file",
			doc:  "",
			want: section + "\n",
		},
		{
			name: "appends after a blank line",
			doc:  "# Project\n",
			want: "# Project\n\n" + section + "\n",
		},
		{
			name: "adds the missing newline",
			doc:  "# Project",
			want: "# Project\n\n" + section + "\n",
		},
		{
			name: "replaces only the marked lines",
			doc:  "before\n" + sectionStart + "\nold\n" + sectionEnd + "\nafter\n",
			want: "before\n" + section + "\nafter\n",
		},
		{
			name:    "start marker without end",
			doc:     "before\n" + sectionStart + "\nold\n",
			wantErr: true,
		},
		{
			name:    "end marker only before start",
			doc:     sectionEnd + "\n" + sectionStart + "\nold\n",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := spliceSection(tc.doc, section)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want error, got:\n%s", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got:\n%q\nwant:\n%q", got, tc.want)
			}
		})
	}
}

func TestInitWritesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "CLAUDE.md")
	if err := os.WriteFile(path, []byte("# Notes\n\nkeep me\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# Notes\n\nkeep me\n\n"+sectionStart) {
		t.Errorf("existing text not kept:\n%s", content)
	}
	if !strings.Contains(content, rule.Name) {
		t.Error("written section does not name the rule")
	}
	if !strings.Contains(stderr.String(), "wrote noelse section to "+path) {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}

	// A second run leaves the file as it is.
	if err := run([]string{"init", path}, &stdout, &stderr); err != nil {
		t.Fatalf("second init: %v", err)
	}
	again, _ := os.ReadFile(path)
	if string(again) != content {
		t.Errorf("init is not idempotent:\nfirst:\n%s\nsecond:\n%s", content, again)
	}
}

func TestInitDryRun(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "CLAUDE.md")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", "--dry-run", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("dry run created the file")
	}
	if got, want := stdout.String(), usageSection(lintFlagSet())+"\n"; got != want {
		t.Errorf("dry run output:\n%s\nwant:\n%s", got, want)
	}

	// Without a path only the section is printed.
	stdout.Reset()
	if err := run([]string{"init", "--dry-run"}, &stdout, &stderr); err != nil {
		t.Fatalf("init without path: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), sectionStart) {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestInitUnterminatedSection(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "CLAUDE.md")
	original := "intro\n" + sectionStart + "\nhand written\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"init", path}, &stdout, &stderr)
	if err == nil {
		t.Fatal("want an error for a section without an end marker")
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code %d, want 2", exitCode(err))
	}
	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("file was modified:\n%s", data)
	}
}

func TestInitTooManyArgs(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", "a.md", "b.md"}, &stdout, &stderr); err == nil {
		t.Fatal("expected an error for two paths")
	}
}
