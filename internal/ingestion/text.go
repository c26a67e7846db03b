package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/textnorm"
)

var (
	spaceRun       = regexp.MustCompile(`\s+`)
	blankLineRun   = regexp.MustCompile(`\n\n\n+`)
	unicodeBullets = []string{"• ", "· ", "▪ ", "◦ ", "● ", "– "}
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Block normalization: NBSP, CRLF and trailing blanks
	content = textnorm.Block(content)

	// 2. Process each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 3. Remove excessive blank lines (max 2 consecutive) and trim
	result := blankLineRun.ReplaceAllString(strings.Join(cleanedLines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	// Preserve headings (Markdown # or ## etc.)
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	leadingSpace := len(line) - len(trimmed)
	indent := ""
	if leadingSpace > 0 {
		indent = strings.Repeat(" ", leadingSpace)
	}

	// Bullets keep their marker; unicode markers become "- "
	if isBulletLine(trimmed) {
		marker, rest := splitBullet(trimmed)
		return indent + marker + spaceRun.ReplaceAllString(strings.TrimSpace(rest), " ")
	}

	return indent + spaceRun.ReplaceAllString(strings.TrimSpace(trimmed), " ")
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return true
	}
	for _, b := range unicodeBullets {
		if strings.HasPrefix(trimmed, b) {
			return true
		}
	}
	return false
}

func splitBullet(line string) (marker, rest string) {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return line[:2], line[2:]
	}
	for _, b := range unicodeBullets {
		if strings.HasPrefix(line, b) {
			return "- ", strings.TrimPrefix(line, b)
		}
	}
	return "", line
}
