package formstate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/lifecycle"
	"github.com/yungbote/onboarding-backend/internal/modules/onboarding/validation"
)

type Engine struct {
	validator *validation.Validator
	rules     *lifecycle.Rules
}

func New(v *validation.Validator) *Engine {
	if v == nil {
		v = validation.Default()
	}
	return &Engine{validator: v, rules: lifecycle.New(v)}
}

// ApplyPatch merges patch into session field by field and moves currentStep
// to step. Present fields replace the stored ones wholesale; structured
// fields are validated in full. Any violation rejects the whole patch and
// the returned error is a *onboarding.ValidationError. The input session is
// never modified.
//
// Session timestamps are left alone; the store assigns them on save.
func (e *Engine) ApplyPatch(session onboarding.Session, step int, patch onboarding.FormData, now time.Time) (onboarding.Session, error) {
	next := session.Clone()
	fd := next.FormData
	var vs onboarding.Violations

	if patch.Products.Set {
		ps, pvs := e.rules.ReconcileProducts(session.FormData.ProductList(), patch.ProductList(), now)
		vs = append(vs, pvs...)
		fd.Products = onboarding.Some(ps)
	}
	if patch.ColorPalette.Set {
		fd.ColorPalette = onboarding.Null[onboarding.ColorPalette]()
		if patch.ColorPalette.Value != nil {
			c, cvs := e.validator.ValidateColorPalette(*patch.ColorPalette.Value)
			vs = append(vs, cvs.Prefixed(onboarding.FieldColorPalette)...)
			fd.ColorPalette = onboarding.Some(c)
		}
	}
	if patch.LanguageAddOns.Set {
		ls, lvs := e.validator.ValidateLanguageAddOns(patch.LanguageAddOnList())
		vs = append(vs, lvs...)
		fd.LanguageAddOns = onboarding.Some(ls)
	}
	if patch.Logo.Set {
		fd.Logo = onboarding.Null[onboarding.UploadedFile]()
		if patch.Logo.Value != nil {
			l, lvs := e.validator.ValidatePhoto(*patch.Logo.Value)
			vs = append(vs, lvs.Prefixed(onboarding.FieldLogo)...)
			fd.Logo = onboarding.Some(l)
		}
	}
	if patch.Contact.Set {
		fd.Contact = onboarding.Null[onboarding.Contact]()
		if patch.Contact.Value != nil {
			c, cvs := e.validator.ValidateContact(*patch.Contact.Value)
			vs = append(vs, cvs.Prefixed(onboarding.FieldContact)...)
			fd.Contact = onboarding.Some(c)
		}
	}
	vs = append(vs, checkStep(step)...)

	if len(vs) > 0 {
		return session, vs.Err()
	}

	for k, v := range patch.Extra {
		if fd.Extra == nil {
			fd.Extra = make(map[string]json.RawMessage, len(patch.Extra))
		}
		fd.Extra[k] = append(json.RawMessage(nil), v...)
	}
	next.FormData = fd
	next.CurrentStep = step
	return next, nil
}

// Validate re-checks a complete document. It is the last guard before a
// document reaches the store and does not reconcile products.
func (e *Engine) Validate(fd onboarding.FormData, step int) (onboarding.FormData, error) {
	out, vs := e.validator.ValidateFormData(fd)
	vs = append(vs, checkStep(step)...)
	if err := vs.Err(); err != nil {
		return fd, err
	}
	return out, nil
}

func checkStep(step int) onboarding.Violations {
	if onboarding.StepInRange(step) {
		return nil
	}
	return onboarding.Violations{{
		Field:  "currentStep",
		Reason: fmt.Sprintf("must be between 0 and %d", onboarding.LastStepIndex()),
	}}
}
