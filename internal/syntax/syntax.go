// Package syntax provides a best-effort validity check for generated
// code. It is a scoring heuristic, not a compiler: Go is parsed with the
// standard library parser, shell with mvdan.cc/sh, and everything else
// falls back to a delimiter-balance check.
package syntax

import (
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	shsyntax "mvdan.cc/sh/v3/syntax"
)

// Result reports what the checker decided about a piece of code.
type Result struct {
	Language string // "go", "shell", "python", "unknown"
	Valid    bool
}

// Check detects the likely language of code and validates it.
func Check(code string) Result {
	lang := detect(code)

	switch lang {
	case "go":
		return Result{Language: lang, Valid: validGo(code)}
	case "shell":
		return Result{Language: lang, Valid: validShell(code)}
	default:
		return Result{Language: lang, Valid: balancedDelimiters(code)}
	}
}

var (
	goPackageRe  = regexp.MustCompile(`(?m)^\s*package\s+\w+`)
	goFuncRe     = regexp.MustCompile(`(?m)^\s*func\s+\w+\s*\(`)
	pyDefRe      = regexp.MustCompile(`(?m)^\s*(def|class)\s+\w+.*:\s*$`)
	pyImportRe   = regexp.MustCompile(`(?m)^\s*(import\s+\w+|from\s+\w+\s+import)`)
	shellShebang = regexp.MustCompile(`\A#!\s*/[^\n]*\b(sh|bash|zsh)\b`)
)

func detect(code string) string {
	if shellShebang.MatchString(code) {
		return "shell"
	}
	if goPackageRe.MatchString(code) && goFuncRe.MatchString(code) {
		return "go"
	}
	if pyDefRe.MatchString(code) || pyImportRe.MatchString(code) {
		return "python"
	}
	return "unknown"
}

func validGo(code string) bool {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "generated.go", code, 0)
	return err == nil
}

func validShell(code string) bool {
	p := shsyntax.NewParser()
	_, err := p.Parse(strings.NewReader(code), "generated.sh")
	return err == nil
}

// balancedDelimiters checks that brackets, parens, and braces nest
// correctly outside of string literals. Crude, but it catches the common
// failure mode of a model emitting a truncated snippet.
func balancedDelimiters(code string) bool {
	var stack []rune
	var inString rune // 0 when outside a string literal
	escaped := false

	for _, r := range code {
		if inString != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == inString:
				inString = 0
			case r == '\n' && inString != '`':
				inString = 0 // unterminated single-line string; tolerate
			}
			continue
		}

		switch r {
		case '"', '\'', '`':
			inString = r
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != opener(r) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}

	return len(stack) == 0
}

func opener(closer rune) rune {
	switch closer {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}
