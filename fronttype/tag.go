package fronttype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag read by the model registry.
//
//	type User struct {
//		Bio     string    `front:"text:long,placeholder=Tell us about you,search"`
//		Created time.Time `front:"object,format=YYYY-MM-DD,header,readonly,order=9"`
//		Profile *Profile  `front:"map,show=Nickname,header"`
//	}
const TagKey = "front"

var ErrEmptyTag = errors.New("fronttype: empty tag")

func newErrUnknownKind(kind string) error {
	return fmt.Errorf("fronttype: unknown field kind %q", kind)
}

func newErrInvalidTagPair(pair string) error {
	return fmt.Errorf("fronttype: invalid tag pair %q", pair)
}

// ParseTag builds the descriptor declared by a `front` struct tag value.
// The first element names the kind, the rest are flags or key=value pairs.
func ParseTag(tag string) (Type, error) {
	parts := strings.Split(tag, ",")
	kind := strings.TrimSpace(parts[0])
	if kind == "" {
		return nil, ErrEmptyTag
	}
	var (
		opts    []Option
		payload = map[string]string{}
	)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		switch key {
		case "header":
			opts = append(opts, InHeader())
		case "search", "searchable":
			opts = append(opts, Searchable())
		case "readonly":
			opts = append(opts, ReadOnly())
		case "editable":
			editable := true
			if hasVal {
				b, err := strconv.ParseBool(val)
				if err != nil {
					return nil, newErrInvalidTagPair(part)
				}
				editable = b
			}
			opts = append(opts, Editable(editable))
		case "order":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, newErrInvalidTagPair(part)
			}
			opts = append(opts, PlaceOrder(n))
		case "show", "placeholder", "format":
			if !hasVal {
				return nil, newErrInvalidTagPair(part)
			}
			payload[key] = val
		default:
			return nil, newErrInvalidTagPair(part)
		}
	}

	switch kind {
	case TypeNameMap:
		return NewMap(payload["show"], opts...), nil
	case TypeNameLongText:
		return NewLongText(payload["placeholder"], opts...), nil
	case TypeNameObject, "date":
		return NewObject(payload["format"], opts...), nil
	default:
		return nil, newErrUnknownKind(kind)
	}
}
