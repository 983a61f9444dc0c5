package onboarding

// Structural limits for onboarding form data. Validator tags are registered
// from these values, so this file is the only place they are spelled out.
const (
	MinProductNameLen        = 3
	MaxProductNameLen        = 50
	MinProductDescriptionLen = 10
	MaxProductDescriptionLen = 100
	MaxPhotosPerProduct      = 5
	MaxProducts              = 6

	// MaxPhotoFileSize is 10 MiB.
	MaxPhotoFileSize = 10 * 1024 * 1024

	MaxLanguageAddOns = 5
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
)

// AllowedPhotoMimeTypes is closed. GIF and SVG are intentionally absent.
var AllowedPhotoMimeTypes = []string{MimeJPEG, MimePNG, MimeWebP}

// SupportedLanguageAddOns holds the base languages that can be purchased as
// add-ons. Region or script subtags are allowed on top of these.
var SupportedLanguageAddOns = []string{
	"ar", "da", "de", "en", "es", "fi", "fr", "it", "ja",
	"ko", "nl", "no", "pl", "pt", "sv", "tr", "uk", "zh",
}
