package graphql

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var ErrNoOperation = errors.New("graphql: document has no operation")

// Request is one top-level field of a GraphQL query, such as
//
//	users(where: {status: $status}, relations: ["profile"], first: 10) { id }
type Request struct {
	// Field is the response key, the alias when one is given
	Field string
	// Entity is the name of the queried field
	Entity  string
	Where   Where
	Options ComposeOptions
}

// ParseQuery reads the requests of the first operation of query. Variables
// the request refers to but vars does not hold are Undefined.
func ParseQuery(query string, vars map[string]any) ([]Request, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return nil, err
	}
	if len(doc.Operations) == 0 {
		return nil, ErrNoOperation
	}
	op := doc.Operations[0]
	res := make([]Request, 0, len(op.SelectionSet))
	for _, sel := range op.SelectionSet {
		f, ok := sel.(*ast.Field)
		if !ok {
			return nil, fmt.Errorf("graphql: unsupported selection %T", sel)
		}
		req, err := newRequest(f, vars)
		if err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, nil
}

func newRequest(f *ast.Field, vars map[string]any) (Request, error) {
	req := Request{
		Field:  f.Alias,
		Entity: f.Name,
	}
	if req.Field == "" {
		req.Field = f.Name
	}
	opts := make(map[string]any, len(f.Arguments))
	for _, arg := range f.Arguments {
		val := valueOf(arg.Value, vars)
		if val == Undefined {
			continue
		}
		switch arg.Name {
		case "where":
			if val == nil {
				continue
			}
			where, ok := asWhere(val)
			if !ok {
				return Request{}, fmt.Errorf("graphql: where of %s must be an object", f.Name)
			}
			req.Where = where
		case "relations":
			// a single item stands for a list of one
			if _, ok := val.([]any); !ok {
				val = []any{val}
			}
			opts[arg.Name] = defined(val)
		default:
			opts[arg.Name] = defined(val)
		}
	}
	if len(opts) == 0 {
		return req, nil
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return Request{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&req.Options); err != nil {
		return Request{}, fmt.Errorf("graphql: arguments of %s: %w", f.Name, err)
	}
	return req, nil
}

// defined drops the Undefined members of objects.
func defined(val any) any {
	switch v := val.(type) {
	case map[string]any:
		res := make(map[string]any, len(v))
		for key, member := range v {
			if member != Undefined {
				res[key] = defined(member)
			}
		}
		return res
	case []any:
		res := make([]any, len(v))
		for i, item := range v {
			res[i] = defined(item)
		}
		return res
	}
	return val
}

// valueOf converts a GraphQL value literal. Integers are int64, floats are
// float64 and enums are strings.
func valueOf(v *ast.Value, vars map[string]any) any {
	if v == nil {
		return Undefined
	}
	switch v.Kind {
	case ast.Variable:
		val, ok := vars[v.Raw]
		if !ok {
			return Undefined
		}
		return val
	case ast.ObjectValue:
		res := make(map[string]any, len(v.Children))
		for _, child := range v.Children {
			res[child.Name] = valueOf(child.Value, vars)
		}
		return res
	case ast.ListValue:
		res := make([]any, 0, len(v.Children))
		for _, child := range v.Children {
			val := valueOf(child.Value, vars)
			if val == Undefined {
				val = nil
			}
			res = append(res, val)
		}
		return res
	}
	val, err := v.Value(nil)
	if err != nil {
		return v.Raw
	}
	return val
}
