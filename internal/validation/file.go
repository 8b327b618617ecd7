package validation

import (
	"mime"
	"path/filepath"
	"strings"
)

// extensionTypes covers the document formats clients usually send without a
// part Content-Type.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
}

// ContentType returns the declared content type when present, otherwise a
// type derived from the file extension, falling back to
// application/octet-stream.
func ContentType(filename, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" {
		return declared
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
