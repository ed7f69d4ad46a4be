package model

// SupportedExtensions are the file extensions assets may carry.
var SupportedExtensions = []string{
	"avif", "gif", "jpg", "jpeg", "png", "svg", "webp",
	"pdf", "zip", "mp4", "webm", "flac",
}

// SupportedMimeTypes are the MIME types assets may carry.
var SupportedMimeTypes = []string{
	"image/avif", "image/gif", "image/jpeg", "image/png",
	"image/svg+xml", "image/webp",
	"application/pdf", "application/zip",
	"video/mp4", "video/webm", "audio/webm", "audio/flac",
}

// SupportedExtension reports whether ext is an allowed asset extension.
func SupportedExtension(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// SupportedMimeType reports whether mime is an allowed asset MIME type.
func SupportedMimeType(mime string) bool {
	for _, m := range SupportedMimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}

// AssetConfig is the on-disk metadata of a binary asset. The payload itself
// lives separately under the LFS-tracked folder.
type AssetConfig struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	MimeType    string `json:"mimeType"`
}

func (AssetConfig) ModelType() Type { return TypeAsset }

// Asset is an AssetConfig plus derived attributes computed at read time;
// none of them are persisted in the JSON.
type Asset struct {
	AssetConfig
	Meta
	// FilePath is the absolute path of the binary payload.
	FilePath string `json:"-"`
	// Size is the payload's byte size.
	Size int64 `json:"-"`
}
