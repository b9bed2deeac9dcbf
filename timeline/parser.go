// Package timeline turns raw script text into an ordered scene timeline.
//
// The script format is line based: blank lines and lines starting with '#'
// are ignored, and any line may carry an explicit timestamp span like
// "[3-8s] …". Lines without one run for a default length starting where the
// previous scene ended.
package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shortsmith/types"
)

// ParseError reports an unparseable script line. It aborts the run before
// any asset is generated.
type ParseError struct {
	LineNo int
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script line %d: %s: %q", e.LineNo, e.Reason, e.Line)
}

var bracketRe = regexp.MustCompile(`\[([^\]]*)\]`)

// Parse converts script text into a Timeline. Scenes come out ordered,
// contiguous and non-overlapping: an explicit timestamp resets the running
// cursor, so an implicit line always continues from the previous scene's
// end. An empty script yields an empty Timeline and no error.
func Parse(script string, defaultSceneSec float64) (types.Timeline, error) {
	var scenes []types.Scene
	cursor := 0.0

	for i, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text := line
		start, end := cursor, cursor+defaultSceneSec

		if m := bracketRe.FindStringSubmatchIndex(line); m != nil {
			inner := line[m[2]:m[3]]
			text = strings.TrimSpace(line[:m[0]] + line[m[1]:])

			if strings.Contains(inner, "-") {
				var err error
				start, end, err = parseSpan(inner)
				if err != nil {
					return types.Timeline{}, &ParseError{LineNo: i + 1, Line: line, Reason: err.Error()}
				}
			}
		}

		kind := Classify(text)
		effects := []string{"zoom", "fade"}
		if kind == types.KindTextOverlay {
			effects = []string{"fade_in", "fade_out"}
		}

		scenes = append(scenes, types.Scene{
			Start:         start,
			End:           end,
			Text:          text,
			Kind:          kind,
			VisualSource:  text,
			Effects:       effects,
			AudioEmphasis: strings.HasSuffix(text, "!"),
		})
		cursor = end
	}

	return types.Timeline{Scenes: scenes}, nil
}

// parseSpan parses "3-8s", "0.5-2.25", "3s-8s" and the like.
func parseSpan(inner string) (float64, float64, error) {
	parts := strings.SplitN(inner, "-", 2)
	start, err := parseSeconds(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad start bound %q", parts[0])
	}
	end, err := parseSeconds(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad end bound %q", parts[1])
	}
	if start < 0 {
		return 0, 0, fmt.Errorf("negative start bound %q", parts[0])
	}
	if end <= start {
		return 0, 0, fmt.Errorf("end %q not after start %q", parts[1], parts[0])
	}
	return start, end, nil
}

func parseSeconds(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "s")
	return strconv.ParseFloat(s, 64)
}
