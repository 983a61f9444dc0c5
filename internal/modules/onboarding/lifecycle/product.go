package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/validation"
)

// ProductInput is the client-controlled part of a product. id, displayOrder
// and timestamps are owned by the rules below.
type ProductInput struct {
	ID          string
	Name        string
	Description string
	Price       *float64
	Photos      []onboarding.UploadedFile
}

func InputFromProduct(p onboarding.Product) ProductInput {
	c := p.Clone()
	return ProductInput{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Photos:      c.Photos,
	}
}

type Rules struct {
	validator *validation.Validator
	newID     func() string
}

func New(v *validation.Validator) *Rules {
	if v == nil {
		v = validation.Default()
	}
	return &Rules{validator: v, newID: onboarding.NewID}
}

// NextDisplayOrder is max+1 over existing, or 0 for an empty collection.
func NextDisplayOrder(existing []onboarding.Product) int {
	next := 0
	for _, p := range existing {
		if p.DisplayOrder >= next {
			next = p.DisplayOrder + 1
		}
	}
	return next
}

// CreateProduct assigns a fresh id, timestamps and the next display order,
// then validates. On violations the returned product must be discarded.
func (r *Rules) CreateProduct(in ProductInput, existing []onboarding.Product, now time.Time) (onboarding.Product, onboarding.Violations) {
	return r.create(r.newID(), in, existing, now)
}

func (r *Rules) create(id string, in ProductInput, existing []onboarding.Product, now time.Time) (onboarding.Product, onboarding.Violations) {
	p := onboarding.Product{
		ID:           id,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Photos:       in.Photos,
		DisplayOrder: NextDisplayOrder(existing),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return r.validator.ValidateProduct(p)
}

// UpdateProduct replaces the client-controlled fields of existing with patch.
// id, createdAt and displayOrder are kept; updatedAt is refreshed.
func (r *Rules) UpdateProduct(existing onboarding.Product, patch ProductInput, now time.Time) (onboarding.Product, onboarding.Violations) {
	merged := existing.Clone()
	merged.Name = patch.Name
	merged.Description = patch.Description
	merged.Price = patch.Price
	merged.Photos = patch.Photos
	merged.UpdatedAt = now
	return r.validator.ValidateProduct(merged)
}

// ReconcileProducts turns a client-supplied replacement collection into the
// collection to store. Entries whose id matches an existing product are
// updates. Anything else is a create; a well-formed client id is adopted so
// photo uploads can be keyed before the first save. Output keeps input order.
//
// Re-applying the same collection leaves every id, displayOrder and
// createdAt as it was.
func (r *Rules) ReconcileProducts(existing, incoming []onboarding.Product, now time.Time) ([]onboarding.Product, onboarding.Violations) {
	byID := make(map[string]onboarding.Product, len(existing))
	for _, p := range existing {
		byID[normalizeID(p.ID)] = p
	}

	// Kept products hold on to their display order, so new ones are numbered
	// after every survivor regardless of where they sit in the input.
	ordered := make([]onboarding.Product, 0, len(incoming))
	for _, in := range incoming {
		if cur, ok := byID[normalizeID(in.ID)]; ok {
			ordered = append(ordered, cur)
		}
	}

	out := make([]onboarding.Product, 0, len(incoming))
	var vs onboarding.Violations
	for i, in := range incoming {
		input := InputFromProduct(in)
		id := normalizeID(in.ID)

		var p onboarding.Product
		var pvs onboarding.Violations
		if cur, ok := byID[id]; ok {
			p, pvs = r.UpdateProduct(cur, input, now)
		} else {
			if id == "" {
				id = r.newID()
			}
			p, pvs = r.create(id, input, ordered, now)
			ordered = append(ordered, p)
		}
		out = append(out, p)
		vs = append(vs, pvs.Prefixed(indexPath(i))...)
	}
	vs = append(vs, validation.CheckProductCollection(out)...)
	if len(vs) > 0 {
		return nil, vs
	}
	return out, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func indexPath(i int) string {
	return fmt.Sprintf("%s[%d]", onboarding.FieldProducts, i)
}
