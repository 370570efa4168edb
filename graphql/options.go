package graphql

import (
	"encoding/json"
	"strings"
)

// Where is a nested filter. Keys are field names of the scoped entity, or
// relation names bound by a RelationQuery.ForArg whose value is a nested
// Where. A value of Undefined means the filter was not given; nil is a
// filter on NULL.
type Where map[string]any

type undefined struct{}

// Undefined marks a key that carries no filter, such as a GraphQL variable
// that the request did not provide.
var Undefined any = undefined{}

// Operator combines the conditions after the first one.
type Operator string

const (
	And Operator = "and"
	Or  Operator = "or"
)

// UnmarshalText is case-insensitive. Values other than "or" behave as And.
func (o *Operator) UnmarshalText(text []byte) error {
	*o = Operator(strings.ToLower(string(text)))
	return nil
}

// RelationQuery declares a relation to join. Table is "relation" for a
// relation of the root entity or "alias.relation" for a relation of an
// entity joined earlier.
type RelationQuery struct {
	Table string `json:"table"`
	// Select hydrates the relation, otherwise it is joined for filtering
	Select bool `json:"select"`
	// ForArg is the key under which Where addresses the joined alias
	ForArg string `json:"forArg,omitempty"`
}

// Relation is the relation declared by a bare path: selected, not bound.
func Relation(table string) RelationQuery {
	return RelationQuery{
		Table:  table,
		Select: true,
	}
}

// UnmarshalJSON accepts a bare path or an object.
func (r *RelationQuery) UnmarshalJSON(data []byte) error {
	var table string
	if err := json.Unmarshal(data, &table); err == nil {
		*r = Relation(table)
		return nil
	}
	type plain RelationQuery
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	*r = RelationQuery(res)
	return nil
}

// ComposeOptions holds joins, pagination and the condition operator. Zero
// integers are options that were not given.
type ComposeOptions struct {
	Relations         []RelationQuery `json:"relations,omitempty"`
	Skip              int             `json:"skip,omitempty"`
	Limit             int             `json:"limit,omitempty"`
	First             int             `json:"first,omitempty"`
	Last              int             `json:"last,omitempty"`
	ConditionOperator Operator        `json:"conditionOperator,omitempty"`
}

// Query is the JSON body of a query request.
type Query struct {
	Where Where `json:"where,omitempty"`
	ComposeOptions
}
