package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// AssetType classifies stored files
//
// swagger:model
type AssetType string

const (
	AssetTypeSignature = AssetType("signature")
	AssetTypePhoto     = AssetType("photo")
	AssetTypeDocument  = AssetType("document")
)

// stored file metadata
// swagger:model
type Asset struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	AssetType   AssetType `json:"asset_type"`
	Size        int       `json:"size"`

	// time-limited download URL
	URL string `json:"url,omitempty"`

	// when the URL above stops working
	URLExpiration time.Time `json:"url_expiration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// swagger:model
type Assets []Asset
