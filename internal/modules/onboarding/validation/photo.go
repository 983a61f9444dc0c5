package validation

import (
	"strings"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

func NormalizePhoto(f onboarding.UploadedFile) onboarding.UploadedFile {
	out := f.Clone()
	out.ID = normalizeID(f.ID)
	out.FileName = strings.TrimSpace(f.FileName)
	out.MimeType = strings.ToLower(strings.TrimSpace(f.MimeType))
	out.URL = strings.TrimSpace(f.URL)
	return out
}

// ValidatePhoto checks a single uploaded file. The mime type must be in the
// closed allow-list regardless of how valid the rest of the metadata is.
func (x *Validator) ValidatePhoto(f onboarding.UploadedFile) (onboarding.UploadedFile, onboarding.Violations) {
	n := NormalizePhoto(f)
	return n, x.check(n)
}
