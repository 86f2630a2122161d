package bounds

import (
	"strings"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/catalog"
	"github.com/birchdb/birch/internal/matcher"
	"github.com/birchdb/birch/internal/planner/interval"
)

// stringMayHaveUnescapedPipe reports whether str contains a non-escaped '|'
// on a best-effort basis. No false negatives, but false positives are
// possible: a pipe inside a character class or a \Q...\E sequence has no
// special meaning yet is still reported.
func stringMayHaveUnescapedPipe(str string) bool {
	if len(str) > 0 && str[0] == '|' {
		return true
	}
	if len(str) > 1 && str[1] == '|' && str[0] != '\\' {
		return true
	}
	for i := 2; i < len(str); i++ {
		probe := str[i]
		prev := str[i-1]
		tail := str[i-2]

		// The pipe keeps its special meaning unless preceded by exactly one
		// backslash.
		if probe == '|' && (prev != '\\' || tail == '\\') {
			return true
		}
	}
	return false
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// SimpleRegex extracts the literal prefix a "simple" anchored regex is
// guaranteed to match, or "" when the pattern cannot be reduced to a prefix
// scan. It also classifies how tight a prefix-range scan would be: generally
// INEXACT_COVERED, EXACT only for a fully anchored literal ending in ".*",
// and unconditionally INEXACT_FETCH under a collation, where index keys are
// not in ASCII order.
func SimpleRegex(pattern, flags string, index *catalog.IndexEntry) (string, Tightness) {
	if index.Collation != nil {
		// Prefix extraction assumes the index sorts byte-wise. Under a
		// collation the regex must run against the fetched document.
		return "", TightnessInexactFetch
	}

	tightness := TightnessInexactCovered

	var multilineOK bool
	switch {
	case strings.HasPrefix(pattern, `\A`):
		multilineOK = true
		pattern = pattern[2:]
	case strings.HasPrefix(pattern, "^"):
		multilineOK = false
		pattern = pattern[1:]
	default:
		return "", tightness
	}

	// A regex with an unescaped pipe is not simple.
	if stringMayHaveUnescapedPipe(pattern) {
		return "", tightness
	}

	extended := false
	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case 'm':
			// Multiline mode is only safe behind a \A anchor.
			if !multilineOK {
				return "", tightness
			}
		case 's':
			// Single-line mode only changes what '.' matches.
		case 'x':
			// Extended free-spacing mode.
			extended = true
		default:
			return "", tightness
		}
	}

	var prefix strings.Builder

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		i++

		switch {
		case c == '*' || c == '?':
			// The only two symbols that make the previous char optional.
			// Breaking out instead would misclassify /^a?/.
			p := prefix.String()
			if len(p) > 0 {
				p = p[:len(p)-1]
			}
			return p, tightness

		case c == '\\':
			var next byte
			if i < len(pattern) {
				next = pattern[i]
				i++
			}
			if next == 'Q' {
				// \Q...\E quotes everything inside.
				for i < len(pattern) {
					c = pattern[i]
					i++
					if c == '\\' && i < len(pattern) && pattern[i] == 'E' {
						i++
						break
					}
					prefix.WriteByte(c)
				}
			} else if isASCIIAlnum(next) || next == 0 {
				// Escape sequences we do not model.
				return prefix.String(), tightness
			} else {
				// Backslash before a non-alphanumeric matches that char.
				prefix.WriteByte(next)
			}

		case strings.IndexByte("^$.[()+{", c) >= 0:
			// Metacharacters end the literal prefix. A pattern ending in
			// ".*" consumes the rest of the string, so the prefix range is
			// exact.
			if !multilineOK && c == '.' && i < len(pattern) && pattern[i] == '*' && i+1 == len(pattern) {
				return prefix.String(), TightnessExact
			}
			return prefix.String(), tightness

		case extended && c == '#':
			// Comment.
			return prefix.String(), tightness

		case extended && (c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'):
			// Free-spacing mode skips whitespace.

		default:
			prefix.WriteByte(c)
		}
	}

	return prefix.String(), tightness
}

// translateRegex appends the bounds for a regex predicate: a prefix range if
// the pattern is simple, the whole string bracket otherwise, and in both
// cases a trailing point for documents storing the literal regex value.
func translateRegex(rme *matcher.RegexExpr, index *catalog.IndexEntry, oil *interval.OrderedIntervalList) Tightness {
	start, tightness := SimpleRegex(rme.Pattern, rme.Flags, index)

	if start != "" {
		end := []byte(start)
		end[len(end)-1]++
		oil.Intervals = append(oil.Intervals,
			interval.MakeRange(bsonx.String(start), bsonx.String(end), true, false))
	} else {
		oil.Intervals = append(oil.Intervals, interval.MakeRange(
			bsonx.MinForType(bsonx.TypeString), bsonx.MaxForType(bsonx.TypeString), true, false))
	}

	// Regexes sort after strings.
	oil.Intervals = append(oil.Intervals,
		interval.MakePoint(bsonx.Regex{Pattern: rme.Pattern, Options: rme.Flags}))
	return tightness
}
