package sources

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// numbered matches list markers the models actually emit: "1.", "2)",
// "3 -", optionally bolded.
var numbered = regexp.MustCompile(`^\s*\**(\d+)\**\s*[.):\-]\s*(.+)$`)

// markdownWrap strips bold/italic markers wrapping a name.
var markdownWrap = regexp.MustCompile(`^[*_]+|[*_]+$`)

// ParseRankedList turns raw model output into a raw list for ingestion.
// Numbered lines take their explicit rank; bare non-empty lines continue
// the sequence from the previous rank. Lines that look like prose
// (sentences with no list marker and more than a handful of words) are
// dropped rather than guessed at.
func ParseRankedList(source types.SourceID, text string) *ingest.RawList {
	list := &ingest.RawList{Source: source}
	next := 1

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var name string
		rank := next
		if m := numbered.FindStringSubmatch(line); m != nil {
			if r, err := strconv.Atoi(m[1]); err == nil && r > 0 {
				rank = r
			}
			name = m[2]
		} else {
			if strings.Count(line, " ") > 6 || strings.HasSuffix(line, ":") {
				continue
			}
			name = line
		}

		name = strings.TrimSpace(markdownWrap.ReplaceAllString(strings.TrimSpace(name), ""))
		// Models sometimes append a justification after a dash or en dash.
		if i := strings.IndexAny(name, "–—"); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name == "" {
			continue
		}

		list.Entries = append(list.Entries, ingest.Entry{Name: name, Rank: rank})
		next = rank + 1
	}
	return list
}
