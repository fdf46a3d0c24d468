package pdftext

import (
	"strings"
	"unicode/utf16"
)

// decodeContentStream pulls the shown strings out of a page content stream.
// It understands Tj, TJ, ' and " plus the positioning operators that start a
// new word or line. Fonts with custom encodings come out garbled; the
// ledongthuc reader handles those.
func decodeContentStream(data []byte) string {
	var (
		out     strings.Builder
		pending []string
	)

	sep := func(s string) {
		if out.Len() > 0 {
			out.WriteString(s)
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isSpace(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteral(data, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			s, next := readHex(data, i)
			pending = append(pending, s)
			i = next
		case c == '[' || c == ']' || c == '{' || c == '}':
			i++
		case c == '/':
			i = skipToken(data, i+1)
		case isNumberStart(c):
			i = skipToken(data, i+1)
		default:
			end := skipToken(data, i+1)
			op := string(data[i:end])
			i = end

			switch op {
			case "Tj", "TJ":
				for _, s := range pending {
					out.WriteString(s)
				}
			case "'", "\"":
				sep("\n")
				for _, s := range pending {
					out.WriteString(s)
				}
			case "Td", "TD", "Tm", "ET":
				sep(" ")
			case "T*":
				sep("\n")
			case "ID":
				i = skipInlineImage(data, i)
			}
			pending = pending[:0]
		}
	}

	return out.String()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return isSpace(c)
}

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func skipToken(data []byte, i int) int {
	for i < len(data) && !isDelimiter(data[i]) {
		i++
	}
	return i
}

// skipInlineImage jumps past binary image data up to the closing EI.
func skipInlineImage(data []byte, i int) int {
	for j := i; j+2 < len(data); j++ {
		if isSpace(data[j]) && data[j+1] == 'E' && data[j+2] == 'I' &&
			(j+3 == len(data) || isDelimiter(data[j+3])) {
			return j + 3
		}
	}
	return len(data)
}

// readLiteral decodes a (string) starting at data[start], honouring nested
// parentheses and backslash escapes.
func readLiteral(data []byte, start int) (string, int) {
	var buf []byte
	depth := 0
	i := start
	for i < len(data) {
		c := data[i]
		switch {
		case c == '(':
			if depth > 0 {
				buf = append(buf, c)
			}
			depth++
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return decodeBytes(buf), i
			}
			buf = append(buf, c)
		case c == '\\' && i+1 < len(data):
			i++
			e := data[i]
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\r', '\n':
				// Line continuation.
				if e == '\r' && i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					val := 0
					for k := 0; k < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7'; k++ {
						val = val*8 + int(data[i]-'0')
						i++
					}
					buf = append(buf, byte(val))
					continue
				}
				buf = append(buf, e)
			}
			i++
		default:
			buf = append(buf, c)
			i++
		}
	}
	return decodeBytes(buf), i
}

// readHex decodes a <hex string> starting at data[start].
func readHex(data []byte, start int) (string, int) {
	var buf []byte
	var hi byte
	half := false
	i := start + 1
	for ; i < len(data) && data[i] != '>'; i++ {
		v, ok := hexValue(data[i])
		if !ok {
			continue
		}
		if half {
			buf = append(buf, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		buf = append(buf, hi<<4)
	}
	if i < len(data) {
		i++
	}
	return decodeBytes(buf), i
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// decodeBytes treats a leading BOM as UTF-16BE and everything else as
// single-byte Latin-1.
func decodeBytes(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
