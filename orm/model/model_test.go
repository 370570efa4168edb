package model

import (
	"database/sql"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminql/fronttype"
	"adminql/orm/internal/errs"
)

func Test_registry_Register(t *testing.T) {
	testCases := []struct {
		name       string
		entity     any
		wantFields []*Field
		wantErr    error
	}{
		{
			name:    "struct",
			entity:  TestModel{},
			wantErr: errs.ErrPointOnly,
		},
		{
			name:    "map",
			entity:  map[string]string{},
			wantErr: errs.ErrPointOnly,
		},
		{
			name:    "nil",
			entity:  nil,
			wantErr: errs.ErrPointOnly,
		},
		{
			name:   "pointer",
			entity: &TestModel{},
			wantFields: []*Field{
				{
					ColName: "id",
					GoName:  "Id",
					Type:    reflect.TypeOf(int64(0)),
					Offset:  0,
				},
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
					Offset:  8,
				},
				{
					ColName: "age",
					GoName:  "Age",
					Type:    reflect.TypeOf(int8(0)),
					Offset:  24,
				},
				{
					ColName: "last_name",
					GoName:  "LastName",
					Type:    reflect.TypeOf(&sql.NullString{}),
					Offset:  32,
				},
			},
		},
	}
	r := &registry{}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := r.Register(tc.entity)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantFields, m.Fields)
			assert.Equal(t, "test_model", m.TableName)
			assert.Equal(t, reflect.TypeOf(TestModel{}), m.Type)
			for _, fd := range tc.wantFields {
				assert.Equal(t, fd, m.FieldMap[fd.GoName])
				assert.Equal(t, fd, m.ColumnMap[fd.ColName])
			}
			assert.Equal(t, m.FieldMap["Id"], m.PrimaryKey)
			assert.Empty(t, m.Relations)
		})
	}
}

func TestRegistry_tags(t *testing.T) {
	testCases := []struct {
		name        string
		entity      any
		wantColName string
		wantPK      bool
		wantErr     error
	}{
		{
			name: "column",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column=first_name_t"`
				}
				return &TagTable{}
			}(),
			wantColName: "first_name_t",
		},
		{
			name: "empty column",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column="`
				}
				return &TagTable{}
			}(),
			wantColName: "first_name",
		},
		{
			name: "column only",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column"`
				}
				return &TagTable{}
			}(),
			wantErr: errs.NewErrInvalidTagContext("column"),
		},
		{
			name: "unknown key",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"abc=abc"`
				}
				return &TagTable{}
			}(),
			wantColName: "first_name",
		},
		{
			name: "primary key flag",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column=code,primary_key"`
				}
				return &TagTable{}
			}(),
			wantColName: "code",
			wantPK:      true,
		},
		{
			name: "bad front tag",
			entity: func() any {
				type TagTable struct {
					FirstName string `front:"color"`
				}
				return &TagTable{}
			}(),
			wantErr: func() error {
				_, err := fronttype.ParseTag("color")
				return err
			}(),
		},
	}
	r := NewRegistry()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := r.Get(tc.entity)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			require.Len(t, m.Fields, 1)
			assert.Equal(t, tc.wantColName, m.Fields[0].ColName)
			assert.Equal(t, "tag_table", m.TableName)
			if tc.wantPK {
				assert.Equal(t, m.Fields[0], m.PrimaryKey)
			} else {
				assert.Nil(t, m.PrimaryKey)
			}
			cache, ok := r.(*registry).models.Load(reflect.TypeOf(tc.entity))
			assert.True(t, ok)
			assert.Equal(t, m, cache)
		})
	}
}

func TestRegistry_relations(t *testing.T) {
	r := NewRegistry()
	m, err := r.Get(&Author{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "Name", "Bio", "CreatedAt", "Nickname"}, goNames(m.Fields))
	require.Len(t, m.Relations, 3)

	profile := m.RelationMap["Profile"]
	require.NotNil(t, profile)
	assert.Equal(t, ToOne, profile.Kind)
	assert.Equal(t, reflect.TypeOf(Profile{}), profile.Target)
	assert.Equal(t, "profile_id", profile.JoinColumn)
	assert.True(t, profile.Pointer())
	assert.Equal(t, fronttype.NewMap("Nickname", fronttype.InHeader()), profile.FrontType)

	country := m.RelationMap["Country"]
	require.NotNil(t, country)
	assert.Equal(t, ToOne, country.Kind)
	assert.Equal(t, "country_code", country.JoinColumn)
	assert.False(t, country.Pointer())

	posts := m.RelationMap["Posts"]
	require.NotNil(t, posts)
	assert.Equal(t, ToMany, posts.Kind)
	assert.Equal(t, reflect.TypeOf(Post{}), posts.Target)
	assert.Equal(t, "author_id", posts.InverseColumn)
	assert.True(t, posts.Pointer())

	rel, ok := m.RelationByName("posts")
	assert.True(t, ok)
	assert.Equal(t, posts, rel)
	_, ok = m.RelationByName("comments")
	assert.False(t, ok)

	_, ok = m.FieldMap["Skipped"]
	assert.False(t, ok)
}

func TestModel_FieldByName(t *testing.T) {
	r := NewRegistry()
	m, err := r.Get(&Author{})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		lookup   string
		wantName string
		wantOK   bool
	}{
		{name: "go name", lookup: "CreatedAt", wantName: "CreatedAt", wantOK: true},
		{name: "column name", lookup: "created_at", wantName: "CreatedAt", wantOK: true},
		{name: "lower camel", lookup: "createdAt", wantName: "CreatedAt", wantOK: true},
		{name: "relation is not a field", lookup: "profile"},
		{name: "unknown", lookup: "xxx"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fd, ok := m.FieldByName(tc.lookup)
			assert.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.wantName, fd.GoName)
		})
	}
}

func TestModel_FrontFields(t *testing.T) {
	r := NewRegistry()
	m, err := r.Get(&Author{})
	require.NoError(t, err)

	fields := m.FrontFields()
	assert.Equal(t, []fronttype.Field{
		{Name: "Profile", Type: fronttype.NewMap("Nickname", fronttype.InHeader())},
		{Name: "Bio", Type: fronttype.NewLongText("About", fronttype.Searchable(), fronttype.PlaceOrder(1))},
		{Name: "CreatedAt", Type: fronttype.NewObject("YYYY-MM-DD", fronttype.ReadOnly(), fronttype.PlaceOrder(2))},
	}, fields)
}

func TestRegistry_concurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	models := make([]*Model, 16)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := r.Get(&TestModel{})
			assert.NoError(t, err)
			models[i] = m
		}(i)
	}
	wg.Wait()
	for _, m := range models {
		assert.Same(t, models[0], m)
	}
}

func TestModelWithTableName(t *testing.T) {
	r := NewRegistry()
	m, err := r.Register(&TestModel{}, WithTableName("test_model_ttt"))
	require.NoError(t, err)
	assert.Equal(t, "test_model_ttt", m.TableName)
}

func TestCustomTableName(t *testing.T) {
	r := NewRegistry()
	m, err := r.Get(&CustomTableName{})
	require.NoError(t, err)
	assert.Equal(t, "custom_table_name_t", m.TableName)

	m, err = r.Get(&CustomTableNamePtr{})
	require.NoError(t, err)
	assert.Equal(t, "custom_table_name_ptr_t", m.TableName)
}

func TestModelWithColumnName(t *testing.T) {
	testCases := []struct {
		name        string
		field       string
		colName     string
		wantColName string
		wantErr     error
	}{
		{
			name:        "column name",
			field:       "FirstName",
			colName:     "first_name_ccc",
			wantColName: "first_name_ccc",
		},
		{
			name:    "invalid column name",
			field:   "XXX",
			colName: "first_name_ccc",
			wantErr: errs.NewUnknownField("XXX"),
		},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			m, err := r.Register(&TestModel{}, WithColumnName(tt.field, tt.colName))
			assert.Equal(t, tt.wantErr, err)
			if err != nil {
				return
			}
			fd, ok := m.FieldMap[tt.field]
			require.True(t, ok)
			assert.Equal(t, tt.wantColName, fd.ColName)
			assert.Equal(t, fd, m.ColumnMap[tt.wantColName])
			_, ok = m.ColumnMap["first_name"]
			assert.False(t, ok)
		})
	}
}

func goNames(fields []*Field) []string {
	res := make([]string, 0, len(fields))
	for _, fd := range fields {
		res = append(res, fd.GoName)
	}
	return res
}

type CustomTableName struct {
	FirstName string
}

func (c CustomTableName) TableName() string {
	return "custom_table_name_t"
}

type CustomTableNamePtr struct {
	FirstName string
}

func (c *CustomTableNamePtr) TableName() string {
	return "custom_table_name_ptr_t"
}

type TestModel struct {
	Id        int64
	FirstName string
	Age       int8
	LastName  *sql.NullString
}

type Author struct {
	Id        int64
	Name      string
	Bio       string    `front:"text:long,placeholder=About,search,order=1"`
	CreatedAt time.Time `front:"object,format=YYYY-MM-DD,readonly,order=2"`
	Nickname  sql.NullString
	Profile   *Profile `front:"map,show=Nickname,header"`
	Country   Country  `orm:"join_column=country_code"`
	Posts     []*Post
	Skipped   string `orm:"-"`
}

type Profile struct {
	Id       int64
	Nickname string
}

type Country struct {
	Code string `orm:"primary_key"`
}

type Post struct {
	Id       int64
	AuthorId int64
}
