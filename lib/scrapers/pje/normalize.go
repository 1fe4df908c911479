package pje

import "fmt"

// NormalizeProcessNumber strips everything that is not a digit and,
// when exactly 20 digits remain, regroups them into the canonical
// 7-2-4-1-2-4 pattern. Any other length passes through unchanged; an
// unlikely value still resolves to a regular "not found" outcome
// rather than a hard error.
func NormalizeProcessNumber(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) != 20 {
		return value
	}
	return fmt.Sprintf(
		"%s-%s.%s.%s.%s.%s",
		digits[0:7],
		digits[7:9],
		digits[9:13],
		digits[13:14],
		digits[14:16],
		digits[16:20],
	)
}
