// Package unicode detects invisible and confusable characters in
// generated source text. Generated code containing zero-width or
// bidirectional control characters can read one way and execute another,
// so these findings feed the sanitizer as built-in violations ahead of
// the registry rules.
package unicode

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Finding is a single suspicious character occurrence.
type Finding struct {
	Category  string // "zero-width", "bidi-control", "control-char", "homoglyph", "invalid-utf8"
	Codepoint string // e.g. "U+200B"
	Position  int    // byte offset in the source
	Detail    string
	Critical  bool // true when display text can diverge from executed text
}

// Scan walks src rune by rune and reports every smuggling indicator.
// The scan is deterministic and never modifies the input.
func Scan(src string) []Finding {
	var findings []Finding

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])

		if r == utf8.RuneError && size == 1 {
			findings = append(findings, Finding{
				Category:  "invalid-utf8",
				Codepoint: fmt.Sprintf("0x%02X", src[i]),
				Position:  i,
				Detail:    "invalid UTF-8 byte sequence",
				Critical:  true,
			})
			i++
			continue
		}

		if f, ok := classify(r, i); ok {
			findings = append(findings, f)
		}
		i += size
	}

	return findings
}

func classify(r rune, pos int) (Finding, bool) {
	cp := fmt.Sprintf("U+%04X", r)

	switch {
	case zeroWidth[r]:
		return Finding{
			Category:  "zero-width",
			Codepoint: cp,
			Position:  pos,
			Detail:    "zero-width character can hide content from review",
			Critical:  true,
		}, true
	case bidiControl[r]:
		return Finding{
			Category:  "bidi-control",
			Codepoint: cp,
			Position:  pos,
			Detail:    "bidirectional control character can make displayed code differ from executed code",
			Critical:  true,
		}, true
	case unsafeControl(r):
		return Finding{
			Category:  "control-char",
			Codepoint: cp,
			Position:  pos,
			Detail:    "control character has no place in source text",
			Critical:  true,
		}, true
	}

	if latin, ok := confusable(r); ok {
		return Finding{
			Category:  "homoglyph",
			Codepoint: cp,
			Position:  pos,
			Detail:    fmt.Sprintf("%s resembles Latin %q; identifiers may not be what they appear", cp, latin),
			Critical:  false,
		}, true
	}

	return Finding{}, false
}

var zeroWidth = map[rune]bool{
	'​': true, // zero width space
	'‌': true, // zero width non-joiner
	'‍': true, // zero width joiner
	'‎': true, // left-to-right mark
	'‏': true, // right-to-left mark
	'⁠': true, // word joiner
	'\uFEFF': true, // BOM / zero width no-break space
	'᠎': true, // mongolian vowel separator
}

var bidiControl = map[rune]bool{
	'‪': true, '‫': true, '‬': true, '‭': true, '‮': true,
	'⁦': true, '⁧': true, '⁨': true, '⁩': true,
}

func unsafeControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return (r <= 0x1F) || r == 0x7F || (r >= 0x80 && r <= 0x9F) ||
		(r >= 0xE0001 && r <= 0xE007F) // Unicode tag block, invisible metadata
}

// confusable reports whether r is a Cyrillic or Greek character that
// visually matches a Latin letter.
func confusable(r rune) (rune, bool) {
	if unicode.Is(unicode.Cyrillic, r) {
		latin, ok := cyrillicConfusables[r]
		return latin, ok
	}
	if unicode.Is(unicode.Greek, r) {
		latin, ok := greekConfusables[r]
		return latin, ok
	}
	return 0, false
}

var cyrillicConfusables = map[rune]rune{
	'а': 'a', 'А': 'A', 'В': 'B', 'с': 'c', 'С': 'C', 'е': 'e', 'Е': 'E',
	'Н': 'H', 'і': 'i', 'І': 'I', 'К': 'K', 'М': 'M', 'о': 'o', 'О': 'O',
	'р': 'p', 'Р': 'P', 'Т': 'T', 'х': 'x', 'Х': 'X', 'у': 'y', 'У': 'Y',
}

var greekConfusables = map[rune]rune{
	'Α': 'A', 'Β': 'B', 'Ε': 'E', 'Η': 'H', 'Ι': 'I', 'Κ': 'K', 'Μ': 'M',
	'Ν': 'N', 'Ο': 'O', 'ο': 'o', 'Ρ': 'P', 'Τ': 'T', 'Υ': 'Y', 'Χ': 'X', 'Ζ': 'Z',
}
