package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceWidth is the zero-padded width of a document suffix (0001).
const SequenceWidth = 4

// FormatSequence renders prefix-NNNN
func FormatSequence(prefix string, n int) string {
	return fmt.Sprintf("%s-%0*d", prefix, SequenceWidth, n)
}

// ParseSequence extracts the numeric suffix of a prefix-NNNN document number.
// The second return value is false when number does not carry prefix or its
// suffix is not a positive integer.
func ParseSequence(prefix, number string) (int, bool) {
	rest, ok := strings.CutPrefix(number, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NextSequenceValue returns the suffix that follows last. With no previous
// number, or one that cannot be parsed, the sequence starts at 1.
func NextSequenceValue(prefix, last string) int {
	if last == "" {
		return 1
	}
	n, ok := ParseSequence(prefix, last)
	if !ok {
		return 1
	}
	return n + 1
}

// NextInSequence returns the document number that follows last under prefix
func NextInSequence(prefix, last string) string {
	return FormatSequence(prefix, NextSequenceValue(prefix, last))
}
