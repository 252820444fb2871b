package gql

import "strings"

type operation struct {
	kind string
	name string
}

// operationKind reports whether the operation selected by name is a query,
// mutation or subscription. It returns "" when the document does not name a
// single operation; execution then reports the error.
func operationKind(doc, name string) string {
	ops := scanOperations(doc)
	if name == "" {
		if len(ops) == 1 {
			return ops[0].kind
		}
		return ""
	}
	for _, op := range ops {
		if op.name == name {
			return op.kind
		}
	}
	return ""
}

// scanOperations lists the top-level operation definitions of a document.
// It tokenizes just enough to skip strings, comments, variable definitions
// and selection sets; fragment definitions are skipped.
func scanOperations(doc string) []operation {
	var (
		ops      []operation
		braces   int
		parens   int
		inDef    bool
		wantName bool
	)

	for i := 0; i < len(doc); {
		c := doc[i]
		switch {
		case c == '#':
			for i < len(doc) && doc[i] != '\n' {
				i++
			}
		case c == '"':
			i = skipString(doc, i)
		case c == '(':
			parens++
			wantName = false
			i++
		case c == ')':
			parens--
			i++
		case c == '{' && parens == 0:
			if braces == 0 && !inDef {
				ops = append(ops, operation{kind: "query"})
				inDef = true
			}
			braces++
			wantName = false
			i++
		case c == '}' && parens == 0:
			braces--
			if braces == 0 {
				inDef = false
			}
			i++
		case c == '@':
			wantName = false
			i++
		case isNameStart(c):
			j := i + 1
			for j < len(doc) && isNameChar(doc[j]) {
				j++
			}
			word := doc[i:j]
			i = j
			if braces != 0 || parens != 0 {
				continue
			}
			switch {
			case !inDef && (word == "query" || word == "mutation" || word == "subscription"):
				ops = append(ops, operation{kind: word})
				inDef, wantName = true, true
			case !inDef && word == "fragment":
				inDef = true
			case wantName:
				ops[len(ops)-1].name = word
				wantName = false
			}
		default:
			i++
		}
	}
	return ops
}

// skipString returns the index just past the string literal starting at i.
func skipString(doc string, i int) int {
	if strings.HasPrefix(doc[i:], `"""`) {
		for j := i + 3; j < len(doc); j++ {
			if strings.HasPrefix(doc[j:], `\"""`) {
				j += 3
				continue
			}
			if strings.HasPrefix(doc[j:], `"""`) {
				return j + 3
			}
		}
		return len(doc)
	}
	for j := i + 1; j < len(doc); j++ {
		switch doc[j] {
		case '\\':
			j++
		case '"', '\n':
			return j + 1
		}
	}
	return len(doc)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
