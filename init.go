package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phobologic/noelse/internal/config"
	"github.com/phobologic/noelse/internal/lang"
	"github.com/phobologic/noelse/internal/rule"
)

const (
	sectionStart = "<!-- noelse:start -->"
	sectionEnd   = "<!-- noelse:end -->"
)

// newInitCmd builds `noelse init`, which writes a usage section for agents
// into a CLAUDE.md file. lintFlags are the root command's flags, listed in
// the section.
func newInitCmd(stdout, stderr io.Writer, lintFlags *pflag.FlagSet) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [flags] [path-to-CLAUDE.md]",
		Short: "Write a noelse usage section to a CLAUDE.md file",
		Long: `Write a noelse usage section to a CLAUDE.md file. The section sits between
marker comments and is replaced in place on later runs; the rest of the file is
left alone. The file is created if it does not exist.

path-to-CLAUDE.md defaults to ./CLAUDE.md.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			section := usageSection(lintFlags)
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(stdout, section)
				return nil
			}
			path := "CLAUDE.md"
			if len(args) > 0 {
				path = args[0]
			}
			return writeSection(path, section, dryRun, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the resulting file instead of writing it")
	return cmd
}

func writeSection(path, section string, dryRun bool, stdout, stderr io.Writer) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	updated, err := spliceSection(string(existing), section)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(stderr, "wrote noelse section to %s\n", path)
	return nil
}

// spliceSection replaces the marked section of doc, or appends section
// after a blank line when doc has none. A start marker without an end
// marker after it is an error.
func spliceSection(doc, section string) (string, error) {
	start := strings.Index(doc, sectionStart)
	if start < 0 {
		if doc != "" && !strings.HasSuffix(doc, "\n") {
			doc += "\n"
		}
		if doc != "" {
			doc += "\n"
		}
		return doc + section + "\n", nil
	}
	end := strings.Index(doc[start:], sectionEnd)
	if end < 0 {
		return "", fmt.Errorf("%s has no matching %s", sectionStart, sectionEnd)
	}
	return doc[:start] + section + doc[start+end+len(sectionEnd):], nil
}

// usageSection renders the marked section from the registered languages,
// the rule and the lint flags, so it cannot drift from the binary.
func usageSection(lintFlags *pflag.FlagSet) string {
	var b strings.Builder
	tick := func(s string) string { return "`" + s + "`" }

	b.WriteString(sectionStart + "\n")
	b.WriteString("## noelse: redundant else blocks\n\n")
	fmt.Fprintf(&b, "Run %s via the Bash tool after editing JavaScript or TypeScript. Its one\n", tick("noelse"))
	fmt.Fprintf(&b, "rule, %s, reports:\n\n> %s\n\n", tick(rule.Name), rule.Message)
	fmt.Fprintf(&b, "**Availability:** check with %s first; skip gracefully if not found.\n\n", tick("noelse --version"))

	b.WriteString("**Languages:**\n\n")
	for _, name := range lang.Names() {
		exts := make([]string, 0, len(lang.Languages[name].Extensions))
		for _, ext := range lang.Languages[name].Extensions {
			exts = append(exts, tick(ext))
		}
		fmt.Fprintf(&b, "- %s: %s\n", tick(name), strings.Join(exts, ", "))
	}

	b.WriteString("\n**Run it:**\n```bash\n")
	b.WriteString("noelse                     # current directory\n")
	b.WriteString("noelse src/app.ts          # a single file\n")
	b.WriteString("noelse -l typescript,tsx   # filter by language\n")
	b.WriteString("noelse --diff              # preview the rewrites\n")
	b.WriteString("noelse --fix               # apply them in place\n")
	b.WriteString("```\n\n")

	b.WriteString("**Flags:**\n\n")
	lintFlags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		fmt.Fprintf(&b, "- %s: %s", tick(name), f.Usage)
		switch f.DefValue {
		case "", "false", "0":
		default:
			fmt.Fprintf(&b, " (default %s)", tick(f.DefValue))
		}
		b.WriteString("\n")
	})

	fmt.Fprintf(&b, "\n**Configuration:** an optional %s at the root takes %s, %s,\n",
		tick(config.FileName), tick("languages"), tick("ignore"))
	fmt.Fprintf(&b, "%s and %s. Flags given on the command line win.\n\n", tick("max-file-size"), tick("preserve-scope"))
	b.WriteString("**Exit status:** 0 when clean, 1 when problems remain, 2 on errors.\n\n")

	b.WriteString("**How to act on the output:**\n\n")
	fmt.Fprintf(&b, "1. Prefer %s over hand edits. A fix is withheld whenever dropping the\n", tick("--fix"))
	b.WriteString("   `else` could join statements or redeclare a name.\n")
	b.WriteString("2. Diagnostics without \"(fixable)\" need a manual edit. Often a semicolon\n")
	b.WriteString("   after the exiting branch is enough for the next `--fix`.\n")
	b.WriteString("3. Re-run after hand edits; they may expose new findings.\n")
	b.WriteString(sectionEnd)
	return b.String()
}
