package actions

import (
	"fmt"
	"io"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
)

// fileFieldName is the multipart field name for asset uploads
const fileFieldName = "file"

// swagger:operation POST /assets Assets AssetsCreate
//
// AssetsCreate
//
// upload a file (multipart/form-data, field name "file")
//
// ---
// parameters:
// - name: file
//   in: formData
//   type: file
//   required: true
//   description: the file to upload
// - name: asset_type
//   in: formData
//   type: string
//   required: false
//   description: signature, photo or document, default document
// responses:
//   '200':
//     description: the stored file metadata
//     schema:
//       "$ref": "#/definitions/Asset"
func assetsCreate(c buffalo.Context) error {
	f, err := c.File(fileFieldName)
	if err != nil {
		err := fmt.Errorf("error getting uploaded file from context: %w", err)
		return reportError(c, api.NewAppError(err, api.ErrorReceivingFile, api.CategoryInternal))
	}

	if f.Size > int64(domain.MaxFileSize) {
		err := fmt.Errorf("file upload size (%v) greater than max (%v)", f.Size, domain.MaxFileSize)
		return reportError(c, api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser))
	}

	content, err := io.ReadAll(f)
	if err != nil {
		err := fmt.Errorf("error reading uploaded file: %w", err)
		return reportError(c, api.NewAppError(err, api.ErrorUnableToReadFile, api.CategoryInternal))
	}

	tx := models.Tx(c)
	user := models.CurrentUser(c)

	asset := models.Asset{
		Filename:    f.Filename,
		Content:     content,
		AssetType:   api.AssetType(c.Param("asset_type")),
		CreatedByID: nulls.NewUUID(user.ID),
	}
	if err := asset.Store(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeAsset, asset.ID, "create", map[string]any{"filename": asset.Filename})

	return renderOk(c, asset.ConvertToAPI(tx))
}

// swagger:operation GET /assets/{id} Assets AssetsView
//
// AssetsView
//
// get file metadata with a fresh time-limited download URL
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: asset ID
// responses:
//   '200':
//     description: the file metadata
//     schema:
//       "$ref": "#/definitions/Asset"
func assetsView(c buffalo.Context) error {
	tx := models.Tx(c)
	asset := getReferencedAssetFromCtx(c)

	if err := asset.RefreshURL(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, asset.ConvertToAPI(tx))
}

// getReferencedAssetFromCtx pulls the Asset resource from context, placed
// there by the AuthZ middleware
func getReferencedAssetFromCtx(c buffalo.Context) *models.Asset {
	asset, ok := c.Value(domain.TypeAsset).(*models.Asset)
	if !ok {
		panic("asset not found in context")
	}
	return asset
}
