package planner

import (
	"regexp"
	"strconv"
	"strings"
)

var pageRangePattern = regexp.MustCompile(`^(\d+)(?:\s*-\s*(\d+))?$`)

// PageRange is a parsed page span from a task's page text.
type PageRange struct {
	Start int
	End   int
}

// ParsePageRange parses "N" or "N-M" page text. The bounds are normalised so
// Start <= End. Unparseable or non-positive text returns ok=false.
func ParsePageRange(text string) (PageRange, bool) {
	match := pageRangePattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return PageRange{}, false
	}

	start, err := strconv.Atoi(match[1])
	if err != nil {
		return PageRange{}, false
	}
	end := start
	if match[2] != "" {
		if end, err = strconv.Atoi(match[2]); err != nil {
			return PageRange{}, false
		}
	}
	if start <= 0 || end <= 0 {
		return PageRange{}, false
	}
	if start > end {
		start, end = end, start
	}
	return PageRange{Start: start, End: end}, true
}
