package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// relaxedToJSON rewrites a Python-literal style document into strict JSON.
// It handles single or double quoted strings with Python escapes,
// True/False/None, tuples, and trailing commas. Anything else is copied
// through and left for the JSON decoder to reject.
func relaxedToJSON(src string) (string, error) {
	var out strings.Builder
	out.Grow(len(src) + len(src)/8)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\'' || c == '"':
			s, next, err := readPyString(src, i)
			if err != nil {
				return "", err
			}
			quoted, err := json.Marshal(s)
			if err != nil {
				return "", err
			}
			out.Write(quoted)
			i = next

		case c == '(':
			out.WriteByte('[')
			i++

		case c == ')':
			out.WriteByte(']')
			i++

		case c == ',':
			if closesAfter(src, i+1) {
				i++
				continue
			}
			out.WriteByte(',')
			i++

		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			switch word := src[i:j]; word {
			case "True", "true":
				out.WriteString("true")
			case "False", "false":
				out.WriteString("false")
			case "None", "null":
				out.WriteString("null")
			default:
				return "", fmt.Errorf("unexpected identifier %q at offset %d", word, i)
			}
			i = j

		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}

// closesAfter reports whether the next non-space byte after pos closes a container.
func closesAfter(src string, pos int) bool {
	for ; pos < len(src); pos++ {
		switch src[pos] {
		case ' ', '\t', '\n', '\r':
			continue
		case ']', '}', ')':
			return true
		default:
			return false
		}
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// readPyString decodes the quoted literal starting at src[start] and returns
// the value and the offset just past the closing quote.
func readPyString(src string, start int) (string, int, error) {
	quote := src[start]
	var sb strings.Builder

	for i := start + 1; i < len(src); {
		c := src[i]
		if c == quote {
			return sb.String(), i + 1, nil
		}
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(src) {
			break
		}
		esc := src[i+1]
		i += 2
		switch esc {
		case '\\', '\'', '"', '/':
			sb.WriteByte(esc)
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\n':
			// line continuation
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[esc]
			if i+width > len(src) {
				return "", 0, fmt.Errorf("truncated \\%c escape at offset %d", esc, i-2)
			}
			code, err := strconv.ParseUint(src[i:i+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(code)) {
				return "", 0, fmt.Errorf("invalid \\%c escape at offset %d", esc, i-2)
			}
			sb.WriteRune(rune(code))
			i += width
		default:
			// Python keeps unknown escapes verbatim
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}

	return "", 0, fmt.Errorf("unterminated string starting at offset %d", start)
}
