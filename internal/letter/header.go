package letter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// envelopeLineRE matches the header line carrying the envelope number, e.g.
// "4821 Date Printed: 01/02/2024". The salutation is the line that follows.
var envelopeLineRE = regexp.MustCompile(`^(\d+)\s+Date Printed:`)

// salutationSanitizer deletes characters that are unsafe in filenames and
// turns spaces into underscores. Forbidden characters are removed, not
// replaced.
var salutationSanitizer = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "",
	" ", "_",
)

// ExtractHeaderFields pulls the envelope number and salutation from the text
// of a group's first page. The first line whose stripped form matches the
// envelope pattern wins; the salutation is the very next line, stripped of
// leading and trailing whitespace and otherwise taken verbatim. A page with
// no matching line yields zero fields; this is never an error.
func ExtractHeaderFields(text string) HeaderFields {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		m := envelopeLineRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		fields := HeaderFields{}
		if n, err := strconv.Atoi(m[1]); err == nil {
			fields.EnvelopeNumber = n
		}
		if i+1 < len(lines) {
			fields.Salutation = strings.TrimSpace(lines[i+1])
		}
		return fields
	}

	return HeaderFields{}
}

// SanitizeSalutation makes a salutation safe for use in a filename.
func SanitizeSalutation(name string) string {
	return salutationSanitizer.Replace(name)
}

// baseFilename derives the filename stem for a group. recorded is the number
// of letters already present in the metadata mapping; it keys the fallback
// name for groups whose salutation could not be extracted, so fallback names
// depend on processing order.
func baseFilename(fields HeaderFields, recorded int) string {
	if fields.Salutation == "" {
		return fmt.Sprintf("letter_unknown_%d", recorded)
	}

	safe := SanitizeSalutation(fields.Salutation)
	if fields.EnvelopeNumber > 0 {
		return fmt.Sprintf("%d_%s", fields.EnvelopeNumber, safe)
	}
	return safe
}
