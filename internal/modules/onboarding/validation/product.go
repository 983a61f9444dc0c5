package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

const photosField = "photos"

// NormalizeProduct trims free text and lower-cases identifiers. Length rules
// are applied to the normalized value.
func NormalizeProduct(p onboarding.Product) onboarding.Product {
	out := p.Clone()
	out.ID = normalizeID(p.ID)
	out.Name = strings.TrimSpace(p.Name)
	out.Description = strings.TrimSpace(p.Description)
	if out.Photos == nil {
		out.Photos = []onboarding.UploadedFile{}
	}
	for i := range out.Photos {
		out.Photos[i] = NormalizePhoto(out.Photos[i])
	}
	return out
}

// ValidateProduct returns the normalized product and its violations. The
// product is only usable when the violation list is empty.
func (x *Validator) ValidateProduct(p onboarding.Product) (onboarding.Product, onboarding.Violations) {
	n := NormalizeProduct(p)
	vs := x.check(n)

	// The struct tags only dive into photos; the collection rules for the
	// list go right after the per-photo entries.
	var photoVs onboarding.Violations
	if len(n.Photos) > onboarding.MaxPhotosPerProduct {
		photoVs = append(photoVs, onboarding.Violation{
			Field:  photosField,
			Reason: fmt.Sprintf("must have at most %d items", onboarding.MaxPhotosPerProduct),
		})
	}
	photoVs = append(photoVs, duplicates(photosField, "id", len(n.Photos), func(i int) string { return n.Photos[i].ID })...)
	return n, insertAfterField(vs, photoVs, photosField)
}

// productFieldRank is the declaration position of each Product json field.
var productFieldRank = func() map[string]int {
	t := reflect.TypeOf(onboarding.Product{})
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out[jsonFieldName(t.Field(i))] = i
	}
	return out
}()

// insertAfterField places extra before the first violation whose root field
// is declared after field, keeping vs in declaration order.
func insertAfterField(vs, extra onboarding.Violations, field string) onboarding.Violations {
	if len(extra) == 0 {
		return vs
	}
	limit := productFieldRank[field]
	at := len(vs)
	for i, v := range vs {
		if rank, ok := productFieldRank[rootField(v.Field)]; ok && rank > limit {
			at = i
			break
		}
	}
	out := make(onboarding.Violations, 0, len(vs)+len(extra))
	out = append(out, vs[:at]...)
	out = append(out, extra...)
	return append(out, vs[at:]...)
}

func rootField(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

// ValidateProducts validates every element, then the collection as a whole.
// Element violations come first, in element order.
func (x *Validator) ValidateProducts(ps []onboarding.Product) ([]onboarding.Product, onboarding.Violations) {
	out := make([]onboarding.Product, len(ps))
	var vs onboarding.Violations
	for i, p := range ps {
		n, pvs := x.ValidateProduct(p)
		out[i] = n
		vs = append(vs, pvs.Prefixed(indexPath(onboarding.FieldProducts, i))...)
	}
	vs = append(vs, CheckProductCollection(out)...)
	return out, vs
}

// CheckProductCollection applies the collection-level product rules only.
func CheckProductCollection(ps []onboarding.Product) onboarding.Violations {
	var vs onboarding.Violations
	if len(ps) > onboarding.MaxProducts {
		vs = append(vs, onboarding.Violation{
			Field:  onboarding.FieldProducts,
			Reason: fmt.Sprintf("must have at most %d items", onboarding.MaxProducts),
		})
	}
	vs = append(vs, duplicates(onboarding.FieldProducts, "id", len(ps), func(i int) string { return ps[i].ID })...)
	vs = append(vs, sharedPhotos(ps)...)
	return vs
}

// sharedPhotos reports each photo id listed under more than one product.
// Repeats inside a single product are reported by ValidateProduct.
func sharedPhotos(ps []onboarding.Product) onboarding.Violations {
	var vs onboarding.Violations
	owner := make(map[string]int)
	reported := make(map[string]bool)
	for i, p := range ps {
		for _, f := range p.Photos {
			id := normalizeID(f.ID)
			if id == "" {
				continue
			}
			first, ok := owner[id]
			if !ok {
				owner[id] = i
				continue
			}
			if first != i && !reported[id] {
				reported[id] = true
				vs = append(vs, onboarding.Violation{
					Field:  onboarding.FieldProducts,
					Reason: "contains photo id " + id + " under more than one product",
				})
			}
		}
	}
	return vs
}

// duplicates reports each repeated non-empty key once, in first-repeat order.
func duplicates(field, noun string, n int, keyAt func(int) string) onboarding.Violations {
	var vs onboarding.Violations
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := keyAt(i)
		if key == "" {
			continue
		}
		seen[key]++
		if seen[key] == 2 {
			vs = append(vs, onboarding.Violation{Field: field, Reason: "contains duplicate " + noun + " " + key})
		}
	}
	return vs
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func indexPath(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
