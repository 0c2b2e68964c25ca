package assistant

import (
	"regexp"
	"strings"
)

// The assistant answers in prose and frequently embeds the SQL it ran and a
// markdown table of results. These extractors recover both so the frontend
// can render them separately from the narrative text.

var sqlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)` + "```sql\\s*(.*?)\\s*```"),
	regexp.MustCompile(`(?is)` + "```\\s*(SELECT.*?)\\s*```"),
	regexp.MustCompile(`(?is)(SELECT\s+.*?(?:;|$))`),
}

// tableSeparator matches markdown header separator rows like |---|:---:|.
var tableSeparator = regexp.MustCompile(`^[|\s\-:]+$`)

// ExtractSQL returns the first SQL statement found in the answer text, or ""
// when none is present. Fenced sql blocks win over inline statements.
func ExtractSQL(text string) string {
	for _, p := range sqlPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractTable returns the first markdown table in the answer text as
// structured columns and rows, or nil when no table with at least a header
// and one data row is present. Ragged rows are padded or truncated to the
// header width.
func ExtractTable(text string) *Table {
	var tableLines []string
	inTable := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.Count(line, "|") >= 2 {
			inTable = true
			if !tableSeparator.MatchString(line) {
				tableLines = append(tableLines, line)
			}
			continue
		}
		if inTable {
			break
		}
	}

	if len(tableLines) < 2 {
		return nil
	}

	columns := splitRow(tableLines[0])
	rows := make([][]string, 0, len(tableLines)-1)
	for _, line := range tableLines[1:] {
		cells := splitRow(line)
		for len(cells) < len(columns) {
			cells = append(cells, "")
		}
		rows = append(rows, cells[:len(columns)])
	}

	return &Table{Columns: columns, Rows: rows}
}

func splitRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
