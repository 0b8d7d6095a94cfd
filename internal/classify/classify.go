// Package classify assigns a coarse display category to captured text.
// The category is a display hint, not a taxonomy: evaluation order is
// fixed and first match wins, so high-confidence structural signals
// (URL, email, IP, path) preempt looser keyword heuristics.
package classify

import (
	"regexp"
	"strings"
)

// Categories returned by Detect, in evaluation order.
const (
	CategoryURL     = "url"
	CategoryEmail   = "email"
	CategoryIP      = "ip"
	CategoryPath    = "path"
	CategoryCommand = "command"
	CategoryError   = "error"
	CategoryCode    = "code"
	CategoryMisc    = "misc"
)

var (
	urlRegex   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRegex = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)
	ipRegex    = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
)

var errorKeywords = []string{
	"error", "exception", "failed", "fatal", "panic", "traceback",
	"uncaught", "segfault", "abort", "crash",
}

var commandPrefixes = []string{
	"$", "#", "sudo", "ssh", "curl", "git", "npm", "docker",
	"kubectl", "cargo", "brew", "apt", "yum",
}

var codeKeywords = []string{
	"fn ", "def ", "class ", "import ", "const ", "let ", "var ",
	"function ", "async ", "await ", "return ", "if (", "for (",
}

// Detect returns the category for the given text. It is deterministic and
// total: unmatched text falls through to "misc".
func Detect(content string) string {
	if urlRegex.MatchString(content) {
		return CategoryURL
	}

	if emailRegex.MatchString(content) {
		return CategoryEmail
	}

	// No range validation: 999.999.999.999 still reads as an address.
	if ipRegex.MatchString(content) {
		return CategoryIP
	}

	if isPath(content) {
		return CategoryPath
	}

	if isCommand(content) {
		return CategoryCommand
	}

	if isErrorLog(content) {
		return CategoryError
	}

	if isCode(content) {
		return CategoryCode
	}

	return CategoryMisc
}

// isPath matches Unix absolute/home paths and Windows drive paths.
func isPath(content string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "~/") {
		return true
	}
	// Windows drive-letter prefix: X:\
	return len(trimmed) > 2 && trimmed[1] == ':' && trimmed[2] == '\\'
}

// isCommand matches shell-style invocations by prefix or first token.
func isCommand(content string) bool {
	fields := strings.Fields(content)
	firstWord := ""
	if len(fields) > 0 {
		firstWord = fields[0]
	}
	trimmed := strings.TrimLeft(content, " \t\n\r")

	for _, prefix := range commandPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
		if firstWord == strings.TrimLeft(prefix, "$#") {
			return true
		}
	}
	return false
}

// isErrorLog flags text where more than 30% of lines carry an error
// keyword, or a single line containing any keyword.
func isErrorLog(content string) bool {
	lower := strings.ToLower(content)
	lines := strings.Split(strings.TrimRight(lower, "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return false
	}

	errorLines := 0
	for _, line := range lines {
		for _, kw := range errorKeywords {
			if strings.Contains(line, kw) {
				errorLines++
				break
			}
		}
	}

	ratio := float64(errorLines) / float64(len(lines))
	return ratio > 0.3 || (len(lines) == 1 && errorLines > 0)
}

// isCode matches brace pairs or common keyword-with-trailing-space tokens.
func isCode(content string) bool {
	if strings.Contains(content, "{") && strings.Contains(content, "}") {
		return true
	}
	for _, kw := range codeKeywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
