package onboarding

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Known formData keys. Everything else lands in FormData.Extra untouched.
const (
	FieldProducts       = "products"
	FieldColorPalette   = "colorPalette"
	FieldLanguageAddOns = "languageAddOns"
	FieldLogo           = "logo"
	FieldContact        = "contact"
)

// Optional distinguishes an absent key (Set=false) from an explicit null
// (Set=true, Value=nil).
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// FormData is the typed envelope over a session's form fields. Known
// structured fields are validated on every write; Extra is passed through.
type FormData struct {
	Products       Optional[[]Product]
	ColorPalette   Optional[ColorPalette]
	LanguageAddOns Optional[[]LanguageAddOn]
	Logo           Optional[UploadedFile]
	Contact        Optional[Contact]

	Extra map[string]json.RawMessage
}

// ProductList returns nil when products were never written and an empty,
// non-nil slice when they were cleared.
func (fd FormData) ProductList() []Product {
	if !fd.Products.Set {
		return nil
	}
	if fd.Products.Value == nil {
		return []Product{}
	}
	return *fd.Products.Value
}

func (fd FormData) LanguageAddOnList() []LanguageAddOn {
	if !fd.LanguageAddOns.Set {
		return nil
	}
	if fd.LanguageAddOns.Value == nil {
		return []LanguageAddOn{}
	}
	return *fd.LanguageAddOns.Value
}

func (fd FormData) IsEmpty() bool {
	return !fd.Products.Set && !fd.ColorPalette.Set && !fd.LanguageAddOns.Set &&
		!fd.Logo.Set && !fd.Contact.Set && len(fd.Extra) == 0
}

func (fd *FormData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*fd = FormData{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FormatError{Field: "formData", Reason: "must be a JSON object"}
	}
	for key, val := range raw {
		var err error
		switch key {
		case FieldProducts:
			err = fd.Products.UnmarshalJSON(val)
		case FieldColorPalette:
			err = fd.ColorPalette.UnmarshalJSON(val)
		case FieldLanguageAddOns:
			err = fd.LanguageAddOns.UnmarshalJSON(val)
		case FieldLogo:
			err = fd.Logo.UnmarshalJSON(val)
		case FieldContact:
			err = fd.Contact.UnmarshalJSON(val)
		default:
			if fd.Extra == nil {
				fd.Extra = make(map[string]json.RawMessage)
			}
			fd.Extra[key] = append(json.RawMessage(nil), val...)
		}
		if err != nil {
			return &FormatError{Field: JoinPath("formData", key), Reason: "has an invalid shape: " + shapeReason(err)}
		}
	}
	return nil
}

func (fd FormData) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(fd.Extra)+5)
	for k, v := range fd.Extra {
		out[k] = v
	}
	put := func(key string, set bool, m json.Marshaler) error {
		if !set {
			return nil
		}
		b, err := m.MarshalJSON()
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := errors.Join(
		put(FieldProducts, fd.Products.Set, fd.Products),
		put(FieldColorPalette, fd.ColorPalette.Set, fd.ColorPalette),
		put(FieldLanguageAddOns, fd.LanguageAddOns.Set, fd.LanguageAddOns),
		put(FieldLogo, fd.Logo.Set, fd.Logo),
		put(FieldContact, fd.Contact.Set, fd.Contact),
	); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (fd FormData) Clone() FormData {
	out := FormData{
		ColorPalette: cloneOptional(fd.ColorPalette, func(c ColorPalette) ColorPalette { return c }),
		Contact:      cloneOptional(fd.Contact, func(c Contact) Contact { return c }),
		Logo:         cloneOptional(fd.Logo, UploadedFile.Clone),
		Products: cloneOptional(fd.Products, func(ps []Product) []Product {
			cp := make([]Product, len(ps))
			for i, p := range ps {
				cp[i] = p.Clone()
			}
			return cp
		}),
		LanguageAddOns: cloneOptional(fd.LanguageAddOns, func(ls []LanguageAddOn) []LanguageAddOn {
			return append([]LanguageAddOn{}, ls...)
		}),
	}
	if fd.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(fd.Extra))
		for k, v := range fd.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func cloneOptional[T any](o Optional[T], clone func(T) T) Optional[T] {
	if o.Value == nil {
		return Optional[T]{Set: o.Set}
	}
	v := clone(*o.Value)
	return Optional[T]{Set: o.Set, Value: &v}
}

func shapeReason(err error) string {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return ute.Field + " expects " + ute.Type.String()
		}
		return "expected " + ute.Type.String()
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return "malformed JSON"
	}
	return err.Error()
}
