package validation

import (
	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

// ValidateFormData validates every known field that is present, in envelope
// order. Extra fields are copied through unchecked.
func (x *Validator) ValidateFormData(fd onboarding.FormData) (onboarding.FormData, onboarding.Violations) {
	out := fd.Clone()
	var vs onboarding.Violations

	if fd.Products.Set {
		ps, pvs := x.ValidateProducts(fd.ProductList())
		out.Products = onboarding.Some(ps)
		vs = append(vs, pvs...)
	}
	if fd.ColorPalette.Value != nil {
		c, cvs := x.ValidateColorPalette(*fd.ColorPalette.Value)
		out.ColorPalette = onboarding.Some(c)
		vs = append(vs, cvs.Prefixed(onboarding.FieldColorPalette)...)
	}
	if fd.LanguageAddOns.Set {
		ls, lvs := x.ValidateLanguageAddOns(fd.LanguageAddOnList())
		out.LanguageAddOns = onboarding.Some(ls)
		vs = append(vs, lvs...)
	}
	if fd.Logo.Value != nil {
		l, lvs := x.ValidatePhoto(*fd.Logo.Value)
		out.Logo = onboarding.Some(l)
		vs = append(vs, lvs.Prefixed(onboarding.FieldLogo)...)
	}
	if fd.Contact.Value != nil {
		c, cvs := x.ValidateContact(*fd.Contact.Value)
		out.Contact = onboarding.Some(c)
		vs = append(vs, cvs.Prefixed(onboarding.FieldContact)...)
	}
	return out, vs
}
