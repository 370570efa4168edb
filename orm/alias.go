package orm

import (
	"strings"

	"adminql/orm/internal/errs"
	"adminql/orm/model"
)

// Alias is a name bound in the FROM clause of a selector: the root entity
// or a joined relation.
type Alias struct {
	Name string
	// Parent is nil for the root alias
	Parent *Alias
	// Relation is the relation name on the parent entity
	Relation string
	// Selected aliases are projected and hydrated into the result
	Selected bool

	// resolved by Build
	model *model.Model
	rel   *model.Relation
}

// Model returns the entity metadata behind the alias once the selector has
// been built, nil before.
func (a *Alias) Model() *model.Model {
	return a.model
}

func (a *Alias) hydrated() bool {
	if a.Parent == nil {
		return true
	}
	return a.Selected && a.Parent.hydrated()
}

// splitRelationPath splits "parentAlias.relation".
func splitRelationPath(path string) (string, string, error) {
	idx := strings.IndexByte(path, '.')
	if idx <= 0 || idx == len(path)-1 || strings.IndexByte(path[idx+1:], '.') >= 0 {
		return "", "", errs.NewInvalidRelationPath(path)
	}
	return path[:idx], path[idx+1:], nil
}
