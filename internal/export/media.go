package export

import "strings"

// Supported image media types.
const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
	MediaTypeGIF  = "image/gif"
	MediaTypeWebP = "image/webp"
	MediaTypeSVG  = "image/svg+xml"
	MediaTypeBMP  = "image/bmp"
)

// defaultExtension is used for media types outside the supported set.
const defaultExtension = ".png"

// extensions maps each supported media type to its export file extension.
var extensions = map[string]string{
	MediaTypePNG:  ".png",
	MediaTypeJPEG: ".jpg",
	MediaTypeGIF:  ".gif",
	MediaTypeWebP: ".webp",
	MediaTypeSVG:  ".svg",
	MediaTypeBMP:  ".bmp",
}

// byExtension maps lowercase file extensions to media types.
var byExtension = map[string]string{
	".png":  MediaTypePNG,
	".jpg":  MediaTypeJPEG,
	".jpeg": MediaTypeJPEG,
	".gif":  MediaTypeGIF,
	".webp": MediaTypeWebP,
	".svg":  MediaTypeSVG,
	".bmp":  MediaTypeBMP,
}

// ExtensionFor returns the export extension for a media type; unknown types
// get .png.
func ExtensionFor(mediaType string) string {
	if ext, ok := extensions[strings.ToLower(mediaType)]; ok {
		return ext
	}
	return defaultExtension
}

// IsSupported reports whether mediaType belongs to the supported set.
func IsSupported(mediaType string) bool {
	_, ok := extensions[strings.ToLower(mediaType)]
	return ok
}

// MediaTypeForExtension returns the media type registered for ext
// (with or without the leading dot), or "" when unknown.
func MediaTypeForExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return byExtension[ext]
}

// SupportedMediaTypes lists the supported media types in a stable order.
func SupportedMediaTypes() []string {
	return []string{MediaTypePNG, MediaTypeJPEG, MediaTypeGIF, MediaTypeWebP, MediaTypeSVG, MediaTypeBMP}
}
