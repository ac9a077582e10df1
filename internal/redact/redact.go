// Package redact strips credential material from text before it is
// written to the audit log. Prompts and generated code routinely carry
// pasted API keys; the log must never become a second copy of them.
package redact

import "regexp"

const placeholder = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	// key=value style assignments
	regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|access[_-]?token|auth[_-]?token|password|passwd)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),

	// provider-prefixed tokens
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`),
	regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[A-Za-z0-9-]+`),

	// bearer tokens and basic auth in URLs
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),

	// private key blocks
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
}

// Redact replaces every recognized secret in input with a placeholder.
func Redact(input string) string {
	out := input
	for _, p := range secretPatterns {
		out = p.ReplaceAllString(out, placeholder)
	}
	return out
}
