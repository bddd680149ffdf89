package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	_ "golang.org/x/image/webp" // enable decoding of WEBP images

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/storage"
)

const minimumAssetURLLifespan = time.Minute * 5

var ValidAssetTypes = map[api.AssetType]struct{}{
	api.AssetTypeSignature: {},
	api.AssetTypePhoto:     {},
	api.AssetTypeDocument:  {},
}

// Asset is a stored file: a GC signature image, a jobsite photo, or a
// supporting document. Bytes live in S3; this row is the metadata.
type Asset struct {
	ID            uuid.UUID     `db:"id"`
	URL           string        `db:"url" validate:"required"`
	URLExpiration time.Time     `db:"url_expiration"`
	Filename      string        `db:"filename" validate:"required"`
	Size          int           `db:"size" validate:"required,min=0"`
	ContentType   string        `db:"content_type" validate:"required"`
	AssetType     api.AssetType `db:"asset_type" validate:"assetType"`
	Linked        bool          `db:"linked"`
	CreatedByID   nulls.UUID    `db:"created_by_id"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Content []byte `db:"-"`
}

type Assets []Asset

func (a *Asset) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

// Store uploads the content to S3 and saves the metadata row
func (a *Asset) Store(tx *pop.Connection) error {
	if len(a.Content) > domain.MaxFileSize {
		err := fmt.Errorf("file too large (%d bytes), max is %d bytes", len(a.Content), domain.MaxFileSize)
		return api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser)
	}

	if a.ContentType == "" {
		contentType, err := detectContentType(a.Content)
		if err != nil {
			return api.NewAppError(err, api.ErrorStoreFileBadContentType, api.CategoryUser)
		}
		a.ContentType = contentType
	}

	if a.Filename == "" {
		return api.NewAppError(errors.New("filename is missing"), api.ErrorFilenameRequired, api.CategoryUser)
	}

	if a.AssetType == "" {
		a.AssetType = api.AssetTypeDocument
	}

	a.removeMetadata()
	a.matchFileExtension()

	a.ID = domain.GetUUID()

	url, err := storage.StoreFile(a.Path(), a.ContentType, a.Content)
	if err != nil {
		err = fmt.Errorf("error storing file %s: %w", a.ID, err)
		return api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
	}

	a.URL = url.Url
	a.URLExpiration = url.Expiration
	a.Size = len(a.Content)
	if err = create(tx, a); err != nil {
		return fmt.Errorf("error creating asset %s: %w", a.ID, err)
	}

	return nil
}

// StoreSignature decodes a base64 PNG from the approval form and stores it
// as a linked signature asset. Canvas widgets send a data URL
// ("data:image/png;base64,...."), so any data-URL prefix is stripped first.
func StoreSignature(tx *pop.Connection, encoded, tnmNumber string) (Asset, error) {
	if strings.HasPrefix(encoded, "data:") {
		if _, b64, found := strings.Cut(encoded, ","); found {
			encoded = b64
		}
	}

	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Asset{}, api.NewAppError(
			fmt.Errorf("invalid signature image encoding: %w", err),
			api.ErrorStoreFileBadContentType,
			api.CategoryUser,
		)
	}

	asset := Asset{
		Filename:  fmt.Sprintf("%s-signature.png", tnmNumber),
		AssetType: api.AssetTypeSignature,
		Content:   content,
	}
	if err := asset.Store(tx); err != nil {
		return asset, err
	}
	if err := asset.SetLinked(tx); err != nil {
		return asset, err
	}
	return asset, nil
}

// removeMetadata strips EXIF data by re-encoding the image where possible
func (a *Asset) removeMetadata() {
	img, _, err := image.Decode(bytes.NewReader(a.Content))
	if err != nil {
		return
	}
	buf := new(bytes.Buffer)
	switch a.ContentType {
	case "image/jpg", "image/jpeg":
		if err := jpeg.Encode(buf, img, nil); err == nil {
			a.Content = buf.Bytes()
		}
	case "image/gif":
		if err := gif.Encode(buf, img, nil); err == nil {
			a.Content = buf.Bytes()
		}
	case "image/png":
		if err := png.Encode(buf, img); err == nil {
			a.Content = buf.Bytes()
		}
	case "image/webp":
		if err := png.Encode(buf, img); err == nil {
			a.Content = buf.Bytes()
			a.ContentType = "image/png"
		}
	}
}

// matchFileExtension makes the filename extension agree with the content type
func (a *Asset) matchFileExtension() {
	ext, err := mime.ExtensionsByType(a.ContentType)
	if err != nil || len(ext) < 1 {
		return
	}
	a.Filename = strings.TrimSuffix(a.Filename, filepath.Ext(a.Filename)) + ext[0]
}

func (a *Asset) GetID() uuid.UUID {
	return a.ID
}

func (a *Asset) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, a, id)
}

// IsActorAllowedTo permits any authenticated user to view or upload assets.
// Deleting is for admins.
func (a *Asset) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	switch p {
	case PermissionView, PermissionList, PermissionCreate:
		return true
	case PermissionDelete:
		return actor.IsAdmin()
	}
	return false
}

// RefreshURL ensures the presigned URL stays valid for at least a few minutes
func (a *Asset) RefreshURL(tx *pop.Connection) error {
	if a.URLExpiration.After(time.Now().Add(minimumAssetURLLifespan)) {
		return nil
	}

	newURL, err := storage.GetFileURL(a.Path())
	if err != nil {
		return err
	}
	a.URL = newURL.Url
	a.URLExpiration = newURL.Expiration
	return update(tx, a)
}

func detectContentType(content []byte) (string, error) {
	detectedType := http.DetectContentType(content)
	if domain.IsStringInSlice(detectedType, domain.AllowedFileUploadTypes) {
		return detectedType, nil
	}
	return "", fmt.Errorf("invalid file type %s", detectedType)
}

// SetLinked marks the asset as referenced by a ticket. Linking twice is an
// error since an asset belongs to at most one record.
func (a *Asset) SetLinked(tx *pop.Connection) error {
	if err := tx.Reload(a); err != nil {
		panic(fmt.Sprintf("failed to load asset for setting linked flag, %s", err))
	}
	if a.Linked {
		err := errors.New("cannot link asset, it is already linked")
		return api.NewAppError(err, api.ErrorFileAlreadyLinked, api.CategoryUser)
	}
	a.Linked = true
	if err := tx.UpdateColumns(a, "linked", "updated_at"); err != nil {
		return appErrorFromDB(err, api.ErrorUpdateFailure)
	}
	return nil
}

// DeleteUnlinked removes assets nothing ever claimed, after a grace period
func (as *Assets) DeleteUnlinked(tx *pop.Connection) error {
	var assets Assets
	if err := tx.Where("linked = FALSE AND updated_at < ?", time.Now().Add(-domain.DurationWeek)).
		All(&assets); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}

	for _, asset := range assets {
		if err := storage.RemoveFile(asset.Path()); err != nil {
			return fmt.Errorf("error removing asset %s from storage: %w", asset.ID, err)
		}
		a := asset
		if err := destroy(tx, &a); err != nil {
			return err
		}
	}
	return nil
}

func (a *Asset) ConvertToAPI(tx *pop.Connection) api.Asset {
	if err := a.RefreshURL(tx); err != nil {
		panic(err.Error())
	}
	return api.Asset{
		ID:            a.ID,
		Filename:      a.Filename,
		ContentType:   a.ContentType,
		AssetType:     a.AssetType,
		Size:          a.Size,
		URL:           a.URL,
		URLExpiration: a.URLExpiration,
		CreatedAt:     a.CreatedAt,
	}
}

// Path combines the ID and the filename to make the complete storage key
func (a *Asset) Path() string {
	return fmt.Sprintf("%s/%s", a.ID.String(), a.Filename)
}

func (a Asset) String() string {
	ja, _ := json.Marshal(a)
	return string(ja)
}
