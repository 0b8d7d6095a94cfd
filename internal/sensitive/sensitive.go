// Package sensitive flags clipboard text that looks like a credit card
// number, SSN, or phone number. The detector is deliberately
// over-inclusive: a false positive hides a harmless order number, a false
// negative stores someone's card number.
package sensitive

import "regexp"

var (
	ssnRegex   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b|\b\d{9}\b`)
	phoneRegex = regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b|\(\d{3}\)\s*\d{3}-\d{4}`)
)

// IsCreditCard reports whether the digits embedded in content form a
// 13-19 digit run passing the Luhn checksum. Separators are ignored: all
// decimal digits in the text are extracted first.
func IsCreditCard(content string) bool {
	var digits []int
	for _, r := range content {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}

	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	// Luhn: double every second digit from the right, subtract 9 when the
	// doubled value exceeds 9, sum, valid iff sum % 10 == 0.
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		n := digits[i]
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}

	return sum%10 == 0
}

// IsSSN reports whether content contains a DDD-DD-DDDD token or a bare
// 9-digit run.
func IsSSN(content string) bool {
	return ssnRegex.MatchString(content)
}

// IsPhone reports whether content contains a DDD-DDD-DDDD token or a
// (DDD) DDD-DDDD token.
func IsPhone(content string) bool {
	return phoneRegex.MatchString(content)
}

// IsSensitive reports whether content matches any sensitive pattern.
func IsSensitive(content string) bool {
	return IsCreditCard(content) || IsSSN(content) || IsPhone(content)
}
