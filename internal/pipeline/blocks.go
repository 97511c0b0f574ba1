package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// blockKind classifies one unit of the editor dialect.
type blockKind int

const (
	blockBlank blockKind = iota
	blockParagraph
	blockCode
	blockTOC
	blockTable
	blockRule
	blockHeading
	blockQuote
	blockTask
	blockItem
	blockOrderedItem
)

// block is a classified source unit. Most kinds span one line; code and
// table blocks span several.
type block struct {
	kind    blockKind
	line    int        // 1-based line where the block starts
	text    string     // heading, quote, item or paragraph text
	level   int        // heading level
	checked bool       // task item state
	lang    string     // fence language tag, "" when absent
	code    string     // fence content with trailing whitespace trimmed
	rows    [][]string // table cells, rows[0] is the header
}

// Line patterns, listed in classification precedence.
var (
	fenceOpenPattern = regexp.MustCompile("^```(\\w*)[ \\t]*$")
	tableRowPattern  = regexp.MustCompile(`^\|.+\|$`)
	tableSepPattern  = regexp.MustCompile(`^\|[\s:|-]*-[\s:|-]*\|$`)
	rulePattern      = regexp.MustCompile(`^-{3,}$`)
	headingPattern   = regexp.MustCompile(`^(#{1,4}) (.+)$`)
	quotePattern     = regexp.MustCompile(`^> (.+)$`)
	taskPattern      = regexp.MustCompile(`^- \[( |x)\] (.+)$`)
	itemPattern      = regexp.MustCompile(`^[-*] (.+)$`)
	orderedPattern   = regexp.MustCompile(`^\d+\. (.+)$`)
)

// fenceMarker opens and closes fenced code.
const fenceMarker = "```"

// lexBlocks splits normalized markdown into typed blocks. It never fails:
// input it cannot classify becomes paragraphs, and anomalies are reported
// as warnings.
func lexBlocks(content string) ([]block, []Warning) {
	lines := strings.Split(content, "\n")
	blocks := make([]block, 0, len(lines))
	var warnings []Warning

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1

		if m := fenceOpenPattern.FindStringSubmatch(line); m != nil {
			end := findFenceEnd(lines, i+1)
			if end < 0 {
				warnings = append(warnings, Warning{Line: lineNo, Message: "unterminated code fence"})
				blocks = append(blocks, block{kind: blockParagraph, line: lineNo, text: line})
				continue
			}
			blocks = append(blocks, block{
				kind: blockCode,
				line: lineNo,
				lang: m[1],
				code: strings.TrimRight(strings.Join(lines[i+1:end], "\n"), " \t\n"),
			})
			i = end
			continue
		}

		if line == tocMarker {
			blocks = append(blocks, block{kind: blockTOC, line: lineNo})
			continue
		}

		if isTableStart(lines, i) {
			tb, consumed, tw := lexTable(lines, i)
			blocks = append(blocks, tb)
			warnings = append(warnings, tw...)
			i += consumed - 1
			continue
		}

		blocks = append(blocks, classifyLine(line, lineNo))
	}

	return blocks, warnings
}

// classifyLine classifies a single line outside fences and tables.
func classifyLine(line string, lineNo int) block {
	if rulePattern.MatchString(line) {
		return block{kind: blockRule, line: lineNo}
	}
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		return block{kind: blockHeading, line: lineNo, level: len(m[1]), text: m[2]}
	}
	if m := quotePattern.FindStringSubmatch(line); m != nil {
		return block{kind: blockQuote, line: lineNo, text: m[1]}
	}
	if m := taskPattern.FindStringSubmatch(line); m != nil {
		return block{kind: blockTask, line: lineNo, checked: m[1] == "x", text: m[2]}
	}
	if m := itemPattern.FindStringSubmatch(line); m != nil {
		return block{kind: blockItem, line: lineNo, text: m[1]}
	}
	if m := orderedPattern.FindStringSubmatch(line); m != nil {
		return block{kind: blockOrderedItem, line: lineNo, text: m[1]}
	}
	if strings.TrimSpace(line) == "" {
		return block{kind: blockBlank, line: lineNo}
	}
	return block{kind: blockParagraph, line: lineNo, text: line}
}

// findFenceEnd returns the index of the closing fence line at or after
// start, or -1 when the fence is never closed.
func findFenceEnd(lines []string, start int) int {
	for j := start; j < len(lines); j++ {
		if strings.HasPrefix(lines[j], fenceMarker) {
			return j
		}
	}
	return -1
}

// isTableStart reports whether lines[i] is a header row directly followed
// by a separator row.
func isTableStart(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	return tableRowPattern.MatchString(lines[i]) && tableSepPattern.MatchString(lines[i+1])
}

// lexTable consumes a table starting at lines[i] and returns the block and
// the number of lines it spans.
func lexTable(lines []string, i int) (block, int, []Warning) {
	header := splitCells(lines[i])
	tb := block{kind: blockTable, line: i + 1, rows: [][]string{header}}
	var warnings []Warning

	j := i + 2
	for ; j < len(lines) && tableRowPattern.MatchString(lines[j]); j++ {
		row := splitCells(lines[j])
		if len(row) != len(header) {
			warnings = append(warnings, Warning{
				Line:    j + 1,
				Message: fmt.Sprintf("table row has %d cells, header has %d", len(row), len(header)),
			})
		}
		tb.rows = append(tb.rows, row)
	}

	return tb, j - i, warnings
}

// splitCells splits a |a|b| row into trimmed cells. The empty strings
// outside the leading and trailing delimiter are dropped; empty cells
// between delimiters are kept.
func splitCells(row string) []string {
	parts := strings.Split(row, "|")
	parts = parts[1 : len(parts)-1]
	cells := make([]string, len(parts))
	for k, p := range parts {
		cells[k] = strings.TrimSpace(p)
	}
	return cells
}
