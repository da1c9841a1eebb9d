package pathkey

import (
	"path"
	"strings"
)

// BuildTargetKey composes the canonical object key for a file under the given
// lineage. Each lineage level is sanitized and joined with "/", followed by the
// sanitized file name. The result is byte-identical for identical inputs; the
// reconciler's no-op detection depends on that.
func BuildTargetKey(lineage []string, fileName string) string {
	segments := make([]string, 0, len(lineage)+1)
	for _, level := range lineage {
		segments = append(segments, Sanitize(level))
	}
	segments = append(segments, SanitizeFileName(fileName))
	return path.Join(segments...)
}

// BuildTargetKeyWithHash behaves like BuildTargetKey but inserts a short
// content-hash disambiguator before the extension, so two objects with the
// same name can share a folder without colliding.
func BuildTargetKeyWithHash(lineage []string, fileName, contentHash string) string {
	suffix := hashSuffix(contentHash)
	if suffix == "" {
		return BuildTargetKey(lineage, fileName)
	}
	name := SanitizeFileName(fileName)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return BuildTargetKey(lineage, base+"-"+suffix+ext)
}

// SanitizeFileName sanitizes a file name while keeping its extension intact.
// A missing or unusable base name becomes FallbackSegment; the extension is
// lowercased and dropped entirely if it sanitizes away.
func SanitizeFileName(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	cleanBase := Sanitize(base)
	if ext == "" {
		return cleanBase
	}
	cleanExt := Sanitize(strings.TrimPrefix(ext, "."))
	if cleanExt == FallbackSegment {
		return cleanBase
	}
	return cleanBase + "." + cleanExt
}

func hashSuffix(contentHash string) string {
	contentHash = strings.ToLower(strings.TrimSpace(contentHash))
	if len(contentHash) < 8 {
		return ""
	}
	return contentHash[:8]
}
