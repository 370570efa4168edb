package orm

import (
	lru "github.com/hashicorp/golang-lru"
)

// Params binds the :name placeholders of a condition.
type Params map[string]any

// Cond builds a predicate from a SQL fragment such as
// "profile.nickname = :nickname". References written as alias.field are
// resolved against the aliases of the selector, :name placeholders are bound
// from params. Everything else is copied verbatim.
func Cond(expr string, params Params) Predicate {
	return Predicate{
		left: condExpr{
			tmpl:   expr,
			params: params,
		},
	}
}

type condExpr struct {
	tmpl   string
	params Params
}

func (condExpr) expr() {}

type tokenKind uint8

const (
	tokenText tokenKind = iota
	tokenRef
	tokenParam
)

type token struct {
	kind tokenKind
	// verbatim text, also kept for references to unknown aliases
	text  string
	table string
	name  string
}

const condCacheSize = 512

var condCache = mustCache(condCacheSize)

func mustCache(size int) *lru.Cache {
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return c
}

// tokenize splits a condition once per distinct template.
func tokenize(tmpl string) []token {
	if val, ok := condCache.Get(tmpl); ok {
		return val.([]token)
	}
	tokens := scan(tmpl)
	condCache.Add(tmpl, tokens)
	return tokens
}

func scan(tmpl string) []token {
	var (
		tokens []token
		start  int
	)
	flush := func(end int) {
		if end > start {
			tokens = append(tokens, token{kind: tokenText, text: tmpl[start:end]})
		}
	}
	for i := 0; i < len(tmpl); {
		ch := tmpl[i]
		switch {
		case ch == '\'':
			// string literals are copied as they are
			j := i + 1
			for j < len(tmpl) {
				if tmpl[j] == '\'' {
					if j+1 < len(tmpl) && tmpl[j+1] == '\'' {
						j += 2
						continue
					}
					break
				}
				j++
			}
			i = j + 1
		case ch == ':':
			if i+1 < len(tmpl) && tmpl[i+1] == ':' {
				// postgres cast
				i += 2
				continue
			}
			j := i + 1
			for j < len(tmpl) && isIdentPart(tmpl[j]) {
				j++
			}
			if j == i+1 {
				i++
				continue
			}
			flush(i)
			tokens = append(tokens, token{kind: tokenParam, text: tmpl[i:j], name: tmpl[i+1 : j]})
			i, start = j, j
		case isIdentStart(ch):
			j := i + 1
			for j < len(tmpl) && isIdentPart(tmpl[j]) {
				j++
			}
			if j+1 < len(tmpl) && tmpl[j] == '.' && isIdentStart(tmpl[j+1]) {
				k := j + 2
				for k < len(tmpl) && isIdentPart(tmpl[k]) {
					k++
				}
				flush(i)
				tokens = append(tokens, token{
					kind:  tokenRef,
					text:  tmpl[i:k],
					table: tmpl[i:j],
					name:  tmpl[j+1 : k],
				})
				i, start = k, k
				continue
			}
			i = j
		case isDigit(ch):
			// numbers such as 1.5 are never references
			j := i + 1
			for j < len(tmpl) && (isIdentPart(tmpl[j]) || tmpl[j] == '.') {
				j++
			}
			i = j
		default:
			i++
		}
	}
	flush(len(tmpl))
	return tokens
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
