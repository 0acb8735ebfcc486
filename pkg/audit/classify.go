package audit

import "strings"

// ItemKind is the classification of one itemized output line. Every line
// maps to exactly one ItemKind.
type ItemKind int

const (
	// ItemIgnored covers metadata-only differences and anything else the
	// audit does not report.
	ItemIgnored ItemKind = iota

	// ItemMissing is a file present only in the source: rsync would freshly
	// create it in the destination.
	ItemMissing

	// ItemExtra is a file present only in the destination: deletion mode
	// would remove it.
	ItemExtra
)

// deletionMarker prefixes itemized lines for destination-only files when
// --delete is simulated.
const deletionMarker = "*deleting"

// creationCode marks a file-entry transfer where every attribute is newly
// created, i.e. the file does not exist in the destination at all.
const creationCode = "+++++++++"

// ClassifyItem maps one itemized output line to its kind and the path it
// names. Ignored lines return an empty path.
func ClassifyItem(line string) (ItemKind, string) {
	if line == "" {
		return ItemIgnored, ""
	}

	if strings.HasPrefix(line, deletionMarker) {
		path := strings.TrimLeft(strings.TrimPrefix(line, deletionMarker), " ")
		return ItemExtra, path
	}

	parts := strings.SplitN(line, " ", 2)
	if len(parts) < 2 {
		return ItemIgnored, ""
	}

	code, path := parts[0], parts[1]
	if strings.HasPrefix(code, ">f") && strings.Contains(code, creationCode) {
		return ItemMissing, path
	}

	return ItemIgnored, ""
}

// Result is the symmetric difference between the two trees. Both lists are
// append-only during construction and read-only afterwards, in output
// order.
type Result struct {
	Missing []string
	Extra   []string
}

// PerfectMatch reports whether the trees are identical at the file level.
func (r *Result) PerfectMatch() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// ParseOutput classifies every line of the itemized output into a Result.
func ParseOutput(output string) *Result {
	res := &Result{}
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, "\r")
		switch kind, path := ClassifyItem(line); kind {
		case ItemMissing:
			res.Missing = append(res.Missing, path)
		case ItemExtra:
			res.Extra = append(res.Extra, path)
		}
	}
	return res
}
