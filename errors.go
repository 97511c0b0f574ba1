package mdpost

import (
	"errors"

	"github.com/alnah/go-mdpost/internal/assets"
	"github.com/alnah/go-mdpost/internal/dateutil"
)

// Sentinel errors for attachment and session operations.
var (
	ErrUnsupportedMediaType = errors.New("unsupported image media type")
	ErrInvalidDataURL       = errors.New("invalid data URL")
	ErrImageNotFound        = errors.New("image not found")
	ErrSnapshotParse        = errors.New("failed to parse session snapshot")
	ErrSnapshotWrite        = errors.New("failed to write session snapshot")
	ErrReadImage            = errors.New("failed to read image file")
)

// Sentinel errors for rendering and export.
var (
	ErrInvalidEngine     = errors.New("invalid render engine")
	ErrInvalidDateFormat = dateutil.ErrInvalidDateFormat
	ErrArchiveWrite      = errors.New("failed to write archive")
)

// Sentinel errors for styles.
var (
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Sentinel errors for PDF generation.
var (
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
)
