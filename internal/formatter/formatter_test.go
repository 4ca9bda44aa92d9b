package formatter

import (
	"testing"

	"github.com/c2en/c2en/internal/testutil"
)

var formatterTests = []struct {
	name string
	in   string
	want string
}{
	{"plain text passes through",
		"Programme Description\n=====================\n\nThis programme consists of one function.\n",
		"Programme Description\n=====================\n\nThis programme consists of one function.\n"},

	{"american spellings",
		"Initialize the color to the center value and analyze the behavior.",
		"Initialise the colour to the centre value and analyse the behaviour."},

	{"spellings inside quoted messages",
		`Display the message "optimize for color".`,
		`Display the message "optimise for colour".`},

	{"trailing whitespace trimmed",
		"Return the value 0.  \n\t\nDone.",
		"Return the value 0.\n\nDone."},

	{"three blank lines collapse to two",
		"First.\n\n\n\nSecond.\n",
		"First.\n\n\nSecond.\n"},

	{"two blank lines preserved",
		"First.\n\n\nSecond.\n",
		"First.\n\n\nSecond.\n"},
}

func TestFormat(t *testing.T) {
	for _, tc := range formatterTests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			testutil.ExpectNoDiff(t, tc.want, Format(tc.in))
		})
	}
}

// A second pass over formatted text must change nothing.
func TestFormatIdempotent(t *testing.T) {
	in := "Initialize the color.   \n\n\n\n\nDone.\n"
	once := Format(in)
	testutil.ExpectNoDiff(t, once, Format(once))
}
