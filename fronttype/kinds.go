package fronttype

import "encoding/json"

var (
	_ Type = Map{}
	_ Type = LongText{}
	_ Type = Object{}
)

// Map renders a relation as a pick list, showing PropertyToShow of the
// related entity instead of a placeholder.
type Map struct {
	presentation
	propertyToShow string
}

func NewMap(propertyToShow string, opts ...Option) Map {
	return Map{
		presentation:   newPresentation(opts),
		propertyToShow: propertyToShow,
	}
}

func (Map) TypeName() string {
	return TypeNameMap
}
func (Map) Placeholder() string {
	return ""
}
func (m Map) PropertyToShow() string {
	return m.propertyToShow
}
func (Map) frontType() {}

func (m Map) MarshalJSON() ([]byte, error) {
	v := newJSONType(TypeNameMap, m.presentation)
	v.PropertyToShow = m.propertyToShow
	return json.Marshal(v)
}

// LongText renders a multi-line text area.
type LongText struct {
	presentation
	placeholder string
}

func NewLongText(placeholder string, opts ...Option) LongText {
	return LongText{
		presentation: newPresentation(opts),
		placeholder:  placeholder,
	}
}

func (LongText) TypeName() string {
	return TypeNameLongText
}
func (l LongText) Placeholder() string {
	return l.placeholder
}
func (LongText) frontType() {}

func (l LongText) MarshalJSON() ([]byte, error) {
	v := newJSONType(TypeNameLongText, l.presentation)
	v.Placeholder = l.placeholder
	return json.Marshal(v)
}

// Object renders date-like values with Format as the display pattern.
type Object struct {
	presentation
	format string
}

func NewObject(format string, opts ...Option) Object {
	return Object{
		presentation: newPresentation(opts),
		format:       format,
	}
}

func (Object) TypeName() string {
	return TypeNameObject
}
func (Object) Placeholder() string {
	return ""
}
func (o Object) Format() string {
	return o.format
}
func (Object) frontType() {}

func (o Object) MarshalJSON() ([]byte, error) {
	v := newJSONType(TypeNameObject, o.presentation)
	v.Format = o.format
	return json.Marshal(v)
}
