package onboarding

type StepKey string

const (
	StepWelcome   StepKey = "welcome"
	StepBusiness  StepKey = "business"
	StepBranding  StepKey = "branding"
	StepProducts  StepKey = "products"
	StepLanguages StepKey = "languages"
	StepContact   StepKey = "contact"
	StepReview    StepKey = "review"
)

type Step struct {
	Index int     `json:"index"`
	Key   StepKey `json:"key"`
}

// Steps is the fixed, linear wizard catalog. Index is the value carried in
// Session.CurrentStep.
var Steps = []Step{
	{Index: 0, Key: StepWelcome},
	{Index: 1, Key: StepBusiness},
	{Index: 2, Key: StepBranding},
	{Index: 3, Key: StepProducts},
	{Index: 4, Key: StepLanguages},
	{Index: 5, Key: StepContact},
	{Index: 6, Key: StepReview},
}

func LastStepIndex() int { return len(Steps) - 1 }

func StepInRange(i int) bool {
	return i >= 0 && i <= LastStepIndex()
}
