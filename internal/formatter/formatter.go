// Package formatter post-processes translated prose: it normalises
// American spellings to their British forms and tidies whitespace.
package formatter

import (
	"strings"
)

// britishSpellings rewrites the American variants the translator's
// free-text fragments may carry, such as quoted string literals from the
// source programme.  Capitalised forms are listed alongside because
// sentence-initial words are capitalised by the translator.
var britishSpellings = strings.NewReplacer(
	"initialize", "initialise",
	"Initialize", "Initialise",
	"optimize", "optimise",
	"Optimize", "Optimise",
	"analyze", "analyse",
	"Analyze", "Analyse",
	"behavior", "behaviour",
	"Behavior", "Behaviour",
	"color", "colour",
	"Color", "Colour",
	"center", "centre",
	"Center", "Centre",
)

// Format applies British spelling conventions and trims trailing
// whitespace from every line.  The blank line structure of the input is
// preserved, except that runs of three or more blank lines collapse to
// two.
func Format(text string) string {
	text = britishSpellings.Replace(text)

	lines := strings.Split(text, "\n")
	var out strings.Builder
	blanks := 0
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blanks++
			if blanks > 2 && i != len(lines)-1 {
				continue
			}
		} else {
			blanks = 0
		}
		out.WriteString(line)
		if i != len(lines)-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}
