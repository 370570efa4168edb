package graphql

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationQuery_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		want    RelationQuery
		wantErr bool
	}{
		{
			name: "bare path",
			data: `"profile"`,
			want: RelationQuery{Table: "profile", Select: true},
		},
		{
			name: "object",
			data: `{"table":"profile.address","forArg":"address"}`,
			want: RelationQuery{Table: "profile.address", ForArg: "address"},
		},
		{
			name: "selected object",
			data: `{"table":"posts","select":true}`,
			want: RelationQuery{Table: "posts", Select: true},
		},
		{
			name:    "number",
			data:    `12`,
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var r RelationQuery
			err := json.Unmarshal([]byte(tc.data), &r)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, r)
		})
	}
}

func TestQuery_UnmarshalJSON(t *testing.T) {
	data := `{
		"where": {"status": "active", "profile": {"nickname": "tom"}, "deleted": null},
		"relations": ["posts", {"table": "profile", "forArg": "profile"}],
		"skip": 10,
		"limit": 5,
		"conditionOperator": "OR"
	}`
	var q Query
	require.NoError(t, json.Unmarshal([]byte(data), &q))
	assert.Equal(t, Query{
		Where: Where{
			"status":  "active",
			"profile": map[string]any{"nickname": "tom"},
			"deleted": nil,
		},
		ComposeOptions: ComposeOptions{
			Relations: []RelationQuery{
				{Table: "posts", Select: true},
				{Table: "profile", ForArg: "profile"},
			},
			Skip:              10,
			Limit:             5,
			ConditionOperator: Or,
		},
	}, q)
}

func TestOperator_UnmarshalText(t *testing.T) {
	testCases := []struct {
		text string
		want Operator
	}{
		{text: "and", want: And},
		{text: "Or", want: Or},
		{text: "OR", want: Or},
		{text: "xor", want: Operator("xor")},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			var op Operator
			require.NoError(t, op.UnmarshalText([]byte(tc.text)))
			assert.Equal(t, tc.want, op)
		})
	}
}
