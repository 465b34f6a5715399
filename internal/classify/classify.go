package classify

import (
	"mime"
	"path/filepath"
	"strings"
)

// Category is the routing decision for an attachment.
type Category string

const (
	CategoryImage       Category = "image"
	CategoryVideo       Category = "video"
	CategoryOther       Category = "other"
	CategoryUnsupported Category = "unsupported"
)

func (c Category) String() string { return string(c) }

// Supported reports whether files of this category are ingested at all.
func (c Category) Supported() bool { return c != CategoryUnsupported }

// MIME types accepted into the catch-all folder. Everything outside the
// image/ and video/ prefixes that is not listed here is refused.
var otherAllowedMIME = map[string]struct{}{
	"application/zip":                      {},
	"application/pdf":                      {},
	"application/json":                     {},
	"application/vnd.google-earth.kml+xml": {},
}

// Extensions the platform MIME database usually has no answer for but that
// are still worth keeping alongside a note.
var emptyMIMEExtensions = map[string]struct{}{
	".dill": {},
	".dmg":  {},
	".pkl":  {},
}

// Fallbacks for extensions the platform MIME database often lacks. Looked
// up only when mime.TypeByExtension comes back empty, so a richer system
// table still wins.
var extraMIMETypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".zip":  "application/zip",
	".kml":  "application/vnd.google-earth.kml+xml",
}

// Raster formats the compressor knows how to shrink.
var compressibleExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".heic": {},
}

// File classifies the file at path by extension-derived MIME type.
func File(path string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = extraMIMETypes[ext]
	}
	if mimeType == "" {
		if _, ok := emptyMIMEExtensions[ext]; ok {
			return CategoryOther
		}
		return CategoryUnsupported
	}
	return ByMIME(mimeType)
}

// Detected returns the MIME type the classifier resolved for the file, for
// use in rejection messages. Files with no known type report their bare
// extension instead.
func Detected(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = extraMIMETypes[ext]
	}
	if mimeType == "" {
		if ext == "" {
			return "no extension"
		}
		return ext
	}
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// ByMIME classifies an already-known MIME type.
func ByMIME(mimeType string) Category {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryImage
	case strings.HasPrefix(mimeType, "video/"):
		return CategoryVideo
	default:
		if _, ok := otherAllowedMIME[mimeType]; ok {
			return CategoryOther
		}
		return CategoryUnsupported
	}
}

// Compressible reports whether the image at path is a raster format the
// image compressor can process.
func Compressible(path string) bool {
	_, ok := compressibleExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Resizable reports whether embeds of this file take a display-width
// suffix. Images and PDFs render inline, so a width makes sense for both.
func Resizable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return true
	}
	return File(path) == CategoryImage
}
