package speech

import (
	"regexp"
	"strings"
)

var bracketRe = regexp.MustCompile(`\[[^\]]*\]`)

// Clean prepares script text for the synthesizer: comment and blank lines
// are dropped, timestamp brackets and quote/formatting characters are
// stripped, and pause tokens are inserted after sentence-ending
// punctuation. Emphatic endings (! and ?) get a longer pause than periods
// so the narration breathes where the script does.
func Clean(script string) string {
	var out []string
	for _, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimSpace(bracketRe.ReplaceAllString(line, ""))
		line = strings.NewReplacer(`"`, "", "'", "", "*", "").Replace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasSuffix(line, "!"), strings.HasSuffix(line, "?"):
			line += " ..."
		case strings.HasSuffix(line, "."):
			line += " .."
		}
		out = append(out, line)
	}
	return strings.Join(out, " ")
}
