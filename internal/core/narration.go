package core

import (
	"regexp"
	"strings"
)

var (
	markdownEmphasisRe = regexp.MustCompile(`[*_#]+`)
	stageDirectionRe   = regexp.MustCompile(`\[[^\]]*\]`)
	sectionLabelRe     = regexp.MustCompile(`(?im)^\s*(introduction|conclusion|summary|titre|title|partie \d+|part \d+|chapitre \d+|chapter \d+)\s*:\s*`)
	multiSpaceRe       = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanNarrationText strips markup that reads badly when spoken aloud:
// markdown emphasis markers, bracketed stage directions, and leading section
// labels such as "Introduction:". The prose itself is left untouched.
func CleanNarrationText(text string) string {
	text = stageDirectionRe.ReplaceAllString(text, "")
	text = sectionLabelRe.ReplaceAllString(text, "")
	text = markdownEmphasisRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
