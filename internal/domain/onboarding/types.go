package onboarding

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID           uuid.UUID `json:"id"`
	CurrentStep  int       `json:"currentStep"`
	FormData     FormData  `json:"formData"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validation tags reference aliases registered by the validation package.
// Field order here is the order violations are reported in.

type Product struct {
	ID           string         `json:"id" validate:"uuid4_strict"`
	Name         string         `json:"name" validate:"product_name"`
	Description  string         `json:"description" validate:"product_description"`
	Price        *float64       `json:"price,omitempty" validate:"omitempty,gt=0,cents"`
	Photos       []UploadedFile `json:"photos" validate:"dive"`
	DisplayOrder int            `json:"displayOrder" validate:"gte=0"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// UploadedFile is metadata for an object that already lives in photo
// storage. The service never sees the bytes.
type UploadedFile struct {
	ID         string    `json:"id" validate:"uuid4_strict"`
	FileName   string    `json:"fileName" validate:"required"`
	FileSize   int64     `json:"fileSize" validate:"photo_size"`
	MimeType   string    `json:"mimeType" validate:"photo_mime"`
	URL        string    `json:"url" validate:"required,http_url"`
	Width      *int      `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height     *int      `json:"height,omitempty" validate:"omitempty,gt=0"`
	UploadedAt time.Time `json:"uploadedAt" validate:"required"`
}

type ColorPalette struct {
	Primary   string `json:"primary" validate:"required,hex_rgb"`
	Secondary string `json:"secondary,omitempty" validate:"omitempty,hex_rgb"`
	Accent    string `json:"accent,omitempty" validate:"omitempty,hex_rgb"`
}

type LanguageAddOn struct {
	Code string `json:"code" validate:"required,language_addon"`
}

type Contact struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,e164"`
	Website string `json:"website,omitempty" validate:"omitempty,http_url"`
}

func (p Product) Clone() Product {
	out := p
	if p.Price != nil {
		v := *p.Price
		out.Price = &v
	}
	if p.Photos != nil {
		out.Photos = make([]UploadedFile, len(p.Photos))
		for i, f := range p.Photos {
			out.Photos[i] = f.Clone()
		}
	}
	return out
}

func (f UploadedFile) Clone() UploadedFile {
	out := f
	if f.Width != nil {
		w := *f.Width
		out.Width = &w
	}
	if f.Height != nil {
		h := *f.Height
		out.Height = &h
	}
	return out
}

func (s Session) Clone() Session {
	out := s
	out.FormData = s.FormData.Clone()
	return out
}
