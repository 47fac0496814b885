package vmx

import (
	"strings"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/replica/index"
)

// Well-known machine config keys.
const (
	KeyDisplayName  = "displayName"
	KeyUUIDLocation = "uuid.location"
)

// ParseLine splits a `key = "value"` line. It reports false for any other
// form.
func ParseLine(line string) (key, value string, ok bool) {
	return index.ParseAssignment(line)
}

// Value returns the value of the first line whose key is key.
func Value(lines []string, key string) (string, error) {
	for _, line := range lines {
		k, v, ok := ParseLine(line)
		if ok && k == key {
			return v, nil
		}
	}
	return "", domain.ErrConfigValueMissing.WithDetails(key)
}

// KeyByValue returns the key of the first line whose value equals value.
func KeyByValue(lines []string, value string) (string, bool) {
	for _, line := range lines {
		k, v, ok := ParseLine(line)
		if ok && v == value {
			return k, true
		}
	}
	return "", false
}

// NodeOf returns the attachment node of a config key, its first dot segment:
// "scsi0:1.fileName" -> "scsi0:1".
func NodeOf(key string) string {
	node, _, _ := strings.Cut(key, ".")
	return node
}

// SplitLines splits config text into lines without terminators. A trailing
// newline does not produce an empty last line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// JoinLines renders lines as config text, each line newline-terminated.
func JoinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// Line renders a `key = "value"` line.
func Line(key, value string) string {
	return key + ` = "` + value + `"`
}
