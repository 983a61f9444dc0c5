package validation

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

func (x *Validator) ValidateColorPalette(c onboarding.ColorPalette) (onboarding.ColorPalette, onboarding.Violations) {
	n := onboarding.ColorPalette{
		Primary:   strings.ToLower(strings.TrimSpace(c.Primary)),
		Secondary: strings.ToLower(strings.TrimSpace(c.Secondary)),
		Accent:    strings.ToLower(strings.TrimSpace(c.Accent)),
	}
	return n, x.check(n)
}

var supportedBases = func() map[string]struct{} {
	m := make(map[string]struct{}, len(onboarding.SupportedLanguageAddOns))
	for _, b := range onboarding.SupportedLanguageAddOns {
		m[b] = struct{}{}
	}
	return m
}()

// CanonicalLanguage parses raw as a BCP 47 tag and returns its canonical
// form when its base language is offered as an add-on.
func CanonicalLanguage(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	if _, ok := supportedBases[base.String()]; !ok {
		return "", false
	}
	return tag.String(), true
}

// ValidateLanguageAddOns canonicalizes codes first so "EN" and "en" count as
// the same add-on.
func (x *Validator) ValidateLanguageAddOns(ls []onboarding.LanguageAddOn) ([]onboarding.LanguageAddOn, onboarding.Violations) {
	out := make([]onboarding.LanguageAddOn, len(ls))
	var vs onboarding.Violations
	for i, l := range ls {
		n := onboarding.LanguageAddOn{Code: strings.TrimSpace(l.Code)}
		if c, ok := CanonicalLanguage(n.Code); ok {
			n.Code = c
		}
		out[i] = n
		vs = append(vs, x.check(n).Prefixed(indexPath(onboarding.FieldLanguageAddOns, i))...)
	}
	if len(out) > onboarding.MaxLanguageAddOns {
		vs = append(vs, onboarding.Violation{
			Field:  onboarding.FieldLanguageAddOns,
			Reason: fmt.Sprintf("must have at most %d items", onboarding.MaxLanguageAddOns),
		})
	}
	vs = append(vs, duplicates(onboarding.FieldLanguageAddOns, "code", len(out), func(i int) string { return out[i].Code })...)
	return out, vs
}

func (x *Validator) ValidateContact(c onboarding.Contact) (onboarding.Contact, onboarding.Violations) {
	n := onboarding.Contact{
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:   strings.Join(strings.Fields(c.Phone), ""),
		Website: strings.TrimSpace(c.Website),
	}
	return n, x.check(n)
}
