package models

import (
	"github.com/treconstruction/changeorderino-api/api"
)

// a 1x1 transparent PNG
const signaturePNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func (ms *ModelSuite) TestStoreSignature() {
	asset, err := StoreSignature(ms.DB, signaturePNG, "2417-TNM-001")
	ms.NoError(err)

	ms.Equal(api.AssetTypeSignature, asset.AssetType)
	ms.Equal("image/png", asset.ContentType)
	ms.True(asset.Linked, "signature assets should be linked on creation")

	var found Asset
	ms.NoError(found.FindByID(ms.DB, asset.ID))
	ms.Equal("2417-TNM-001-signature.png", found.Filename)
}

func (ms *ModelSuite) TestStoreSignature_dataURL() {
	// browser canvas widgets export signatures as data URLs
	encoded := "data:image/png;base64," + signaturePNG

	asset, err := StoreSignature(ms.DB, encoded, "2417-TNM-002")
	ms.NoError(err)
	ms.Equal("image/png", asset.ContentType)
	ms.True(asset.Size > 0)
}

func (ms *ModelSuite) TestStoreSignature_badEncoding() {
	_, err := StoreSignature(ms.DB, "not base64 at all!!!", "2417-TNM-003")
	ms.EqualAppError(api.AppError{Key: api.ErrorStoreFileBadContentType, Category: api.CategoryUser}, err)
}
