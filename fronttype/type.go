// Package fronttype describes how a model field is shown and edited by the
// generated admin UI.
//
// Every supported field kind is its own variant (Map, LongText, Object). All
// variants share the presentation flags and satisfy Type, so the rendering
// layer can switch over the concrete type exhaustively:
//
//	switch ft := t.(type) {
//	case fronttype.Map:
//		renderSelect(ft.PropertyToShow())
//	case fronttype.LongText:
//		renderTextarea(ft.Placeholder())
//	case fronttype.Object:
//		renderDate(ft.Format())
//	}
package fronttype

const (
	TypeNameMap      = "map"
	TypeNameLongText = "text:long"
	TypeNameObject   = "object"
)

// Type is the capability set shared by every descriptor variant.
type Type interface {
	TypeName() string
	IsEditable() bool
	IsInHeader() bool
	IsSearchable() bool
	PlaceOrder() int
	Placeholder() string

	frontType()
}

// presentation holds the flags common to all variants. It is set once by the
// constructors and never exposed for writing.
type presentation struct {
	isEditable   bool
	isInHeader   bool
	isSearchable bool
	placeOrder   int
}

func defaultPresentation() presentation {
	return presentation{isEditable: true}
}

func (p presentation) IsEditable() bool {
	return p.isEditable
}
func (p presentation) IsInHeader() bool {
	return p.isInHeader
}
func (p presentation) IsSearchable() bool {
	return p.isSearchable
}
func (p presentation) PlaceOrder() int {
	return p.placeOrder
}

// Option tunes the presentation flags of a descriptor.
type Option func(p *presentation)

// InHeader shows the field as a column of the list view.
func InHeader() Option {
	return func(p *presentation) {
		p.isInHeader = true
	}
}

// Searchable exposes the field to the list search box.
func Searchable() Option {
	return func(p *presentation) {
		p.isSearchable = true
	}
}

// ReadOnly is Editable(false).
func ReadOnly() Option {
	return Editable(false)
}

func Editable(editable bool) Option {
	return func(p *presentation) {
		p.isEditable = editable
	}
}

// PlaceOrder sets the relative display position. Any value is accepted.
func PlaceOrder(order int) Option {
	return func(p *presentation) {
		p.placeOrder = order
	}
}

func newPresentation(opts []Option) presentation {
	p := defaultPresentation()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// jsonType is the wire shape every variant encodes to.
type jsonType struct {
	TypeName       string `json:"typeName"`
	IsEditable     bool   `json:"isEditable"`
	IsInHeader     bool   `json:"isInHeader"`
	IsSearchable   bool   `json:"isSearchable"`
	PlaceOrder     int    `json:"placeOrder"`
	Placeholder    string `json:"placeholder,omitempty"`
	Format         string `json:"format,omitempty"`
	PropertyToShow string `json:"propertyToShow,omitempty"`
}

func newJSONType(typeName string, p presentation) jsonType {
	return jsonType{
		TypeName:     typeName,
		IsEditable:   p.isEditable,
		IsInHeader:   p.isInHeader,
		IsSearchable: p.isSearchable,
		PlaceOrder:   p.placeOrder,
	}
}
