package engine

import "strings"

// preprocessSource rewrites scene source into plain zygomys, one word at
// a time:
//
//   - ; and ;; comments become // comments.
//   - :name keywords become "__kw_name" string literals, which parseArgs
//     recognizes by their prefix. Names keep their hyphens, so :knots-u
//     arrives as "knots-u".
//   - Hyphens inside symbols become underscores (clamped-knots becomes
//     clamped_knots) because zygomys reads a hyphen as subtraction.
//     Numbers such as -1 and 1e-3 and the - operator start with a
//     non-letter and are left alone, as is :=.
//
// Double-quoted strings are copied untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	for i := 0; i < len(source); {
		switch c := source[i]; {
		case c == '"':
			end := stringEnd(source, i)
			out.WriteString(source[i:end])
			i = end
		case c == ';':
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				end = len(source)
			} else {
				end += i
			}
			out.WriteString("//")
			out.WriteString(strings.TrimLeft(source[i:end], ";"))
			i = end
		case isDelimiter(c):
			out.WriteByte(c)
			i++
		default:
			end := i
			for end < len(source) && !isDelimiter(source[end]) && source[end] != '"' && source[end] != ';' {
				end++
			}
			out.WriteString(rewriteWord(source[i:end]))
			i = end
		}
	}
	return out.String()
}

// stringEnd returns the index just past the string literal opening at
// start, or len(s) when it is unterminated.
func stringEnd(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(s)
}

// rewriteWord converts a keyword or kebab-case symbol.
func rewriteWord(w string) string {
	if len(w) > 1 && w[0] == ':' && isLetter(w[1]) {
		return `"` + kwPrefix + w[1:] + `"`
	}
	if !isLetter(w[0]) || !strings.Contains(w, "-") {
		return w
	}
	b := []byte(w)
	for i := 1; i+1 < len(b); i++ {
		if b[i] == '-' && isLetter(b[i+1]) {
			b[i] = '_'
		}
	}
	return string(b)
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
