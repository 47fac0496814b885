package index

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// assignment matches `key.path = "value"`.
var assignment = regexp.MustCompile(`^(\w\S*)\s*=\s*"(.*)"$`)

// maxLineSize bounds a single index line.
const maxLineSize = 1 << 20

// Parse reads index assignments from r into a new Tree.
func Parse(r io.Reader) (*Tree, error) {
	t := NewTree()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok := ParseAssignment(scanner.Text())
		if !ok {
			continue
		}
		if err := t.Set(key, value); err != nil {
			return nil, fmt.Errorf("index line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	return t, nil
}

// ParseString is Parse over an in-memory index.
func ParseString(text string) (*Tree, error) {
	return Parse(strings.NewReader(text))
}

// ParseAssignment splits one `key = "value"` line. It reports false for lines
// of any other form, including indented ones. Only a trailing carriage return
// is stripped.
func ParseAssignment(line string) (key, value string, ok bool) {
	m := assignment.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
