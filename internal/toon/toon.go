// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/noelse/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a lint report into TOON format.
func Encode(rep *model.Report) string {
	var parts []string

	problems, fixable := rep.Counts()
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(rep.Root)))
	parts = append(parts, fmt.Sprintf("files: %d", len(rep.Files)))
	parts = append(parts, fmt.Sprintf("problems: %d", problems))
	parts = append(parts, fmt.Sprintf("fixable: %d", fixable))

	var rows [][]string
	for i := range rep.Files {
		fr := &rep.Files[i]
		for j := range fr.Diagnostics {
			d := &fr.Diagnostics[j]
			rows = append(rows, []string{
				fr.Path,
				strconv.Itoa(d.Line),
				strconv.Itoa(d.Column),
				d.Rule,
				yesNo(d.Fixable()),
				d.Message,
			})
		}
	}
	parts = append(parts, formatTabular("diagnostics",
		[]string{"file", "line", "column", "rule", "fixable", "message"}, rows))

	var fixedRows [][]string
	for i := range rep.Files {
		fr := &rep.Files[i]
		if fr.Changed() {
			fixedRows = append(fixedRows, []string{fr.Path, strconv.Itoa(fr.Passes)})
		}
	}
	if len(fixedRows) > 0 {
		parts = append(parts, formatTabular("fixed", []string{"file", "passes"}, fixedRows))
	}

	return strings.Join(parts, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
