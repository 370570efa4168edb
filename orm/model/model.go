package model

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/sync/singleflight"

	"adminql/fronttype"
	"adminql/orm/internal/errs"
)

const (
	tagKeyColumn        = "column"
	tagKeyPrimaryKey    = "primary_key"
	tagKeyJoinColumn    = "join_column"
	tagKeyInverseColumn = "inverse_column"
)

type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...ModelOpt) (*Model, error)
}

type Model struct {
	TableName string
	// Type is the struct type the model was parsed from
	Type   reflect.Type
	Fields []*Field
	// Go field name to field
	FieldMap map[string]*Field
	// column name to field
	ColumnMap map[string]*Field

	PrimaryKey *Field

	Relations   []*Relation
	RelationMap map[string]*Relation
}

// ModelOpt is applied after the struct has been parsed.
type ModelOpt func(m *Model) error

type Field struct {
	ColName string

	Type reflect.Type
	// Go field name
	GoName string

	// offset of the field inside the struct
	Offset uintptr

	FrontType fronttype.Type
}

type RelationKind uint8

const (
	// ToOne relations keep the foreign key on the owner: Profile *Profile.
	ToOne RelationKind = iota + 1
	// ToMany relations keep the foreign key on the target: Posts []*Post.
	ToMany
)

// Relation is a struct field pointing at another entity. It has no column of
// its own; the selector joins through JoinColumn or InverseColumn.
type Relation struct {
	GoName string
	Kind   RelationKind
	// FieldType is the declared type: *T, T, []*T or []T
	FieldType reflect.Type
	// Target is the struct type of the related entity
	Target reflect.Type
	Offset uintptr

	// foreign key column on the owner, ToOne only
	JoinColumn string
	// foreign key column on the target, ToMany only
	InverseColumn string

	FrontType fronttype.Type
}

// Pointer reports whether related values are held by pointer.
func (r *Relation) Pointer() bool {
	if r.Kind == ToMany {
		return r.FieldType.Elem().Kind() == reflect.Pointer
	}
	return r.FieldType.Kind() == reflect.Pointer
}

// FieldByName resolves a Go field name, a column name, or a case-insensitive
// Go field name, in that order.
func (m *Model) FieldByName(name string) (*Field, bool) {
	if fd, ok := m.FieldMap[name]; ok {
		return fd, true
	}
	if fd, ok := m.ColumnMap[name]; ok {
		return fd, true
	}
	for _, fd := range m.Fields {
		if strings.EqualFold(fd.GoName, name) {
			return fd, true
		}
	}
	return nil, false
}

func (m *Model) RelationByName(name string) (*Relation, bool) {
	if rel, ok := m.RelationMap[name]; ok {
		return rel, true
	}
	for _, rel := range m.Relations {
		if strings.EqualFold(rel.GoName, name) {
			return rel, true
		}
	}
	return nil, false
}

// FrontFields lists the descriptors declared on the model, ordered for display.
func (m *Model) FrontFields() []fronttype.Field {
	res := make([]fronttype.Field, 0, len(m.Fields)+len(m.Relations))
	for _, fd := range m.Fields {
		if fd.FrontType != nil {
			res = append(res, fronttype.Field{Name: fd.GoName, Type: fd.FrontType})
		}
	}
	for _, rel := range m.Relations {
		if rel.FrontType != nil {
			res = append(res, fronttype.Field{Name: rel.GoName, Type: rel.FrontType})
		}
	}
	fronttype.Sort(res)
	return res
}

type registry struct {
	models sync.Map
	group  singleflight.Group
}

func NewRegistry() Registry {
	return &registry{}
}

func (r *registry) Get(val any) (*Model, error) {
	typ := reflect.TypeOf(val)
	m, ok := r.models.Load(typ)
	if ok {
		return m.(*Model), nil
	}
	// concurrent first uses of the same type parse it once
	res, err, _ := r.group.Do(fmt.Sprintf("%p", typ), func() (any, error) {
		if m, ok := r.models.Load(typ); ok {
			return m, nil
		}
		return r.Register(val)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Model), nil
}

// Register only accepts a pointer to struct
func (r *registry) Register(entity any, opts ...ModelOpt) (*Model, error) {
	typ := reflect.TypeOf(entity)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointOnly
	}
	elemTyp := typ.Elem()
	numField := elemTyp.NumField()
	fieldMap := make(map[string]*Field, numField)
	columnMap := make(map[string]*Field, numField)
	fields := make([]*Field, 0, numField)
	var (
		pk          *Field
		relations   []*Relation
		relationMap = make(map[string]*Relation)
	)
	for i := 0; i < numField; i++ {
		fd := elemTyp.Field(i)
		if fd.Tag.Get("orm") == "-" {
			continue
		}
		pair, err := r.parseTag(fd.Tag)
		if err != nil {
			return nil, err
		}
		var front fronttype.Type
		if tag, ok := fd.Tag.Lookup(fronttype.TagKey); ok {
			front, err = fronttype.ParseTag(tag)
			if err != nil {
				return nil, err
			}
		}

		if kind, target := relationOf(fd.Type); kind != 0 {
			rel := &Relation{
				GoName:    fd.Name,
				Kind:      kind,
				FieldType: fd.Type,
				Target:    target,
				Offset:    fd.Offset,
				FrontType: front,
			}
			if kind == ToOne {
				rel.JoinColumn = pair[tagKeyJoinColumn]
				if rel.JoinColumn == "" {
					rel.JoinColumn = underscoreName(fd.Name) + "_id"
				}
			} else {
				rel.InverseColumn = pair[tagKeyInverseColumn]
				if rel.InverseColumn == "" {
					rel.InverseColumn = underscoreName(elemTyp.Name()) + "_id"
				}
			}
			relations = append(relations, rel)
			relationMap[fd.Name] = rel
			continue
		}

		colName := pair[tagKeyColumn]
		if colName == "" {
			colName = underscoreName(fd.Name)
		}
		fdMeta := &Field{
			ColName:   colName,
			Type:      fd.Type,
			GoName:    fd.Name,
			Offset:    fd.Offset,
			FrontType: front,
		}
		fieldMap[fd.Name] = fdMeta
		columnMap[colName] = fdMeta
		fields = append(fields, fdMeta)
		if _, ok := pair[tagKeyPrimaryKey]; ok {
			pk = fdMeta
		}
	}
	if pk == nil {
		if fd, ok := fieldMap["Id"]; ok {
			pk = fd
		} else if fd, ok := fieldMap["ID"]; ok {
			pk = fd
		}
	}

	var tableName string
	if tbl, ok := entity.(TableName); ok {
		tableName = tbl.TableName()
	}
	if tableName == "" {
		tableName = underscoreName(elemTyp.Name())
	}

	res := &Model{
		TableName:   tableName,
		Type:        elemTyp,
		FieldMap:    fieldMap,
		ColumnMap:   columnMap,
		Fields:      fields,
		PrimaryKey:  pk,
		Relations:   relations,
		RelationMap: relationMap,
	}
	for _, opt := range opts {
		err := opt(res)
		if err != nil {
			return nil, err
		}
	}
	r.models.Store(typ, res)
	return res, nil
}

func WithColumnName(field string, columnName string) ModelOpt {
	return func(m *Model) error {
		fd, ok := m.FieldMap[field]
		if !ok {
			return errs.NewUnknownField(field)
		}
		delete(m.ColumnMap, fd.ColName)
		fd.ColName = columnName
		m.ColumnMap[columnName] = fd
		return nil
	}
}

func WithTableName(tableName string) ModelOpt {
	return func(m *Model) error {
		m.TableName = tableName
		return nil
	}
}

// parseTag reads `orm:"column=id,primary_key"`. primary_key is the only
// key allowed without a value.
func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag, ok := tag.Lookup("orm")
	if !ok {
		return map[string]string{}, nil
	}
	pairs := strings.Split(ormTag, ",")
	res := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		segs := strings.Split(pair, "=")
		switch len(segs) {
		case 1:
			if segs[0] != tagKeyPrimaryKey {
				return nil, errs.NewErrInvalidTagContext(pair)
			}
			res[segs[0]] = "true"
		case 2:
			res[segs[0]] = segs[1]
		default:
			return nil, errs.NewErrInvalidTagContext(pair)
		}
	}
	return res, nil
}

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	valuerType  = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// relationOf classifies a field type; kind 0 means the field is a column.
func relationOf(typ reflect.Type) (RelationKind, reflect.Type) {
	if typ.Kind() == reflect.Slice {
		if target, ok := entityType(typ.Elem()); ok {
			return ToMany, target
		}
		return 0, nil
	}
	if target, ok := entityType(typ); ok {
		return ToOne, target
	}
	return 0, nil
}

func entityType(typ reflect.Type) (reflect.Type, bool) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct || typ == timeType {
		return nil, false
	}
	ptr := reflect.PointerTo(typ)
	if ptr.Implements(scannerType) || typ.Implements(valuerType) || ptr.Implements(valuerType) {
		return nil, false
	}
	return typ, true
}

func underscoreName(tableName string) string {
	var buf []byte
	for i, v := range tableName {
		if unicode.IsUpper(v) {
			if i != 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, byte(unicode.ToLower(v)))
		} else {
			buf = append(buf, byte(v))
		}
	}
	return string(buf)
}

type TableName interface {
	TableName() string
}
