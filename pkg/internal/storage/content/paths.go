package content

import (
	"path"
	"strings"
)

const (
	// Ext is the canonical extension every content identifier must carry.
	Ext = ".geojson"
	// UploadsDirName is the per-dataset folder for attached documents.
	UploadsDirName = "uploads"
)

// HasCanonicalExt reports whether a content identifier ends in the
// canonical extension.
func HasCanonicalExt(contentID string) bool {
	return strings.HasSuffix(strings.ToLower(contentID), Ext)
}

// FolderName derives the storage folder for a content identifier: the
// sanitized identifier with the canonical extension stripped. The strip is
// case-insensitive, matching HasCanonicalExt, so every identifier the
// extension gate accepts loses its extension here. The mapping is
// deterministic, identical identifiers always resolve to identical paths
// across restarts.
func FolderName(contentID string) string {
	name := contentID
	if HasCanonicalExt(contentID) {
		name = contentID[:len(contentID)-len(Ext)]
	}

	return sanitize(name)
}

// ContentPath is the store path of the canonical feature-collection file.
func ContentPath(contentID string) string {
	return path.Join(FolderName(contentID), sanitize(contentID))
}

// IconPath is the store path of the dataset icon file.
func IconPath(contentID, icon string) string {
	return path.Join(FolderName(contentID), sanitize(icon))
}

// UploadsDir is the store path of the lazily-created uploads folder.
func UploadsDir(contentID string) string {
	return path.Join(FolderName(contentID), UploadsDirName)
}

// UploadPath is the store path of one attached document.
func UploadPath(contentID, fileName string) string {
	return path.Join(UploadsDir(contentID), sanitize(fileName))
}

// sanitize keeps store keys flat and filesystem-safe: letters, digits,
// dot, dash and underscore pass through, everything else becomes '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
