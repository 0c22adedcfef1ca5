package eval

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	hashPrefix  = "__hash_"
	atPrefix    = "__at_"
	placeholder = "__ref"
)

// rewriter turns formula text into an expression expr can parse:
//
//   - #index, #parent, ... become __hash_index, __hash_parent, ...
//   - @prev, @next become __at_prev, __at_next
//   - ../a.b, /a.b and any reference containing [*] become a placeholder
//     identifier __refN bound to the original reference text
//   - if(c, a, b) becomes ((c) ? (a) : (b))
type rewriter struct {
	refs  map[string]string // placeholder -> reference text
	byRef map[string]string
}

func newRewriter() *rewriter {
	return &rewriter{refs: map[string]string{}, byRef: map[string]string{}}
}

func (r *rewriter) rewrite(src string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			j := skipString(src, i)
			out.WriteString(src[i:j])
			i = j
		case isDigit(c):
			j := i
			for j < len(src) && (isIdentChar(src[j]) || (src[j] == '.' && j+1 < len(src) && isDigit(src[j+1]))) {
				j++
			}
			out.WriteString(src[i:j])
			i = j
		case c == '#' && i+1 < len(src) && isIdentStart(src[i+1]):
			j := scanWord(src, i+1)
			out.WriteString(hashPrefix + src[i+1:j])
			i = j
		case c == '@' && i+1 < len(src) && isIdentStart(src[i+1]):
			j := scanWord(src, i+1)
			out.WriteString(atPrefix + src[i+1:j])
			i = j
		case strings.HasPrefix(src[i:], "../"):
			j := i
			for strings.HasPrefix(src[j:], "../") {
				j += 3
			}
			if j >= len(src) || !isIdentStart(src[j]) {
				return "", fmt.Errorf("%w: dangling %q at %d", ErrParse, src[i:j], i)
			}
			j = scanChain(src, j)
			out.WriteString(r.placeholder(src[i:j]))
			i = j
		case c == '/' && rootRefContext(lastSignificant(out.String())) && i+1 < len(src) && isIdentStart(src[i+1]):
			j := scanChain(src, i+1)
			out.WriteString(r.placeholder(src[i:j]))
			i = j
		case isIdentStart(c):
			if i > 0 && src[i-1] == '.' {
				j := scanWord(src, i)
				out.WriteString(src[i:j])
				i = j
				continue
			}
			w := scanWord(src, i)
			if src[i:w] == "if" {
				if k := skipSpace(src, w); k < len(src) && src[k] == '(' {
					lowered, end, err := r.lowerIf(src, k)
					if err != nil {
						return "", err
					}
					out.WriteString(lowered)
					i = end
					continue
				}
			}
			j := scanChain(src, i)
			if strings.Contains(src[i:j], "[*]") {
				out.WriteString(r.placeholder(src[i:j]))
				i = j
				continue
			}
			out.WriteString(src[i:w])
			i = w
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

func (r *rewriter) placeholder(ref string) string {
	if p, ok := r.byRef[ref]; ok {
		return p
	}
	p := placeholder + strconv.Itoa(len(r.refs))
	r.refs[p] = ref
	r.byRef[ref] = p
	return p
}

// lowerIf rewrites the argument list starting at the '(' at open and
// returns the lowered text and the index just past the closing ')'.
func (r *rewriter) lowerIf(src string, open int) (string, int, error) {
	args, end, err := splitArgs(src, open)
	if err != nil {
		return "", 0, err
	}
	if len(args) != 3 {
		return "", 0, fmt.Errorf("%w: if expects 3 arguments, got %d", ErrParse, len(args))
	}
	parts := make([]string, 3)
	for i, a := range args {
		p, err := r.rewrite(a)
		if err != nil {
			return "", 0, err
		}
		parts[i] = strings.TrimSpace(p)
	}
	return "((" + parts[0] + ") ? (" + parts[1] + ") : (" + parts[2] + "))", end, nil
}

// splitArgs splits the parenthesized list at open into its top-level
// comma separated arguments.
func splitArgs(src string, open int) ([]string, int, error) {
	var args []string
	depth := 0
	start := open + 1
	i := open
	for i < len(src) {
		c := src[i]
		switch c {
		case '"', '\'', '`':
			i = skipString(src, i)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				last := src[start:i]
				if len(args) > 0 || strings.TrimSpace(last) != "" {
					args = append(args, last)
				}
				return args, i + 1, nil
			}
		case ',':
			if depth == 1 {
				args = append(args, src[start:i])
				start = i + 1
			}
		}
		i++
	}
	return nil, 0, fmt.Errorf("%w: unbalanced parentheses", ErrParse)
}

// scanChain scans an identifier followed by any number of .field, [n] and
// [*] segments.
func scanChain(src string, i int) int {
	i = scanWord(src, i)
	for i < len(src) {
		switch {
		case src[i] == '.' && i+1 < len(src) && isIdentStart(src[i+1]):
			i = scanWord(src, i+1)
		case src[i] == '[':
			j := i + 1
			if j < len(src) && src[j] == '*' {
				j++
			} else {
				for j < len(src) && isDigit(src[j]) {
					j++
				}
				if j == i+1 {
					return i
				}
			}
			if j >= len(src) || src[j] != ']' {
				return i
			}
			i = j + 1
		default:
			return i
		}
	}
	return i
}

func scanWord(src string, i int) int {
	for i < len(src) && isIdentChar(src[i]) {
		i++
	}
	return i
}

func skipSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

func skipString(src string, i int) int {
	q := src[i]
	j := i + 1
	for j < len(src) {
		switch {
		case src[j] == '\\' && q != '`':
			j += 2
			continue
		case src[j] == q:
			return j + 1
		}
		j++
	}
	return len(src)
}

func lastSignificant(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return s[i]
	}
	return 0
}

// rootRefContext reports whether a '/' following c starts an absolute
// reference rather than a division.
func rootRefContext(c byte) bool {
	return c == 0 || strings.IndexByte("(,+-*/%?:!=<>&|[{", c) >= 0
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
