package annotation

import "regexp"

// Both payload groups are non-greedy and may contain single '=' characters
// and newlines, so embedded math like $x=1$ does not terminate a match
// early. Unterminated syntax simply does not match.
var (
	commentPattern = regexp.MustCompile(`(?s)==(.*?)::(.*?)==`)
	maskPattern    = regexp.MustCompile(`(?s)~=(.*?)=~`)
)

// CommentPattern returns the compiled comment syntax pattern.
// Shared with the static post-processor.
func CommentPattern() *regexp.Regexp { return commentPattern }

// MaskPattern returns the compiled mask syntax pattern.
// Shared with the static post-processor.
func MaskPattern() *regexp.Regexp { return maskPattern }

// ParseLine parses one slice of document text and returns every
// non-overlapping annotation occurrence in left-to-right order.
//
// base is the absolute offset of the slice's first byte; all returned
// offsets are absolute. The slice may contain newlines: callers feeding
// multi-line regions do not need to split them first, and payloads may
// legitimately span lines.
func ParseLine(text string, base int) []Annotation {
	var anns []Annotation

	for _, m := range commentPattern.FindAllStringSubmatchIndex(text, -1) {
		anns = append(anns, Annotation{
			Kind:       KindComment,
			SyntaxFrom: base + m[0],
			SyntaxTo:   base + m[1],
			From:       base + m[4],
			To:         base + m[5],
			Comment:    text[m[2]:m[3]],
		})
	}

	for _, m := range maskPattern.FindAllStringSubmatchIndex(text, -1) {
		anns = append(anns, Annotation{
			Kind:       KindMask,
			SyntaxFrom: base + m[0],
			SyntaxTo:   base + m[1],
			From:       base + m[2],
			To:         base + m[3],
		})
	}

	Sort(anns)
	return anns
}

// ParseText parses an entire document in one call. Offsets are byte
// offsets from the start of text plus base. Since matching is
// newline-tolerant there is no per-line splitting; this is the same scan
// as ParseLine applied to the whole text.
func ParseText(text string, base int) []Annotation {
	return ParseLine(text, base)
}
