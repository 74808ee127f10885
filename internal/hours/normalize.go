package hours

import "strings"

// romanTokens maps roman-numeral title tokens to their arabic form so that
// "Final Fantasy VII" and "Final Fantasy 7" normalize identically. The bare
// single letters "i", "v" and "x" are deliberately excluded: they are far
// more often a pronoun or a stylized letter ("Mega Man X") than a sequel
// number, and folding them would collide with genuinely different titles.
var romanTokens = map[string]string{
	"ii": "2", "iii": "3", "iv": "4",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
	"xi": "11", "xii": "12", "xiii": "13", "xiv": "14", "xv": "15",
	"xvi": "16",
}

// NormalizeTitle folds a game title into a canonical lookup key: lower-cased,
// punctuation stripped, whitespace collapsed, roman numerals rewritten.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for i, tok := range tokens {
		if arabic, ok := romanTokens[tok]; ok {
			tokens[i] = arabic
		}
	}
	return strings.Join(tokens, " ")
}
