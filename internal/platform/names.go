package platform

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Output naming constants
const (
	FallbackBaseName          = "video_download"
	DefaultPlaylistIndexWidth = 3
	PlaylistIndexSeparator    = " - "

	TitleField = "%(title)s"
	ExtField   = "%(ext)s"
)

var forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// Sanitize replaces every character that is invalid in a filename on common
// filesystems with an underscore. Empty input yields empty output.
func Sanitize(name string) string {
	return forbiddenChars.ReplaceAllString(name, "_")
}

// CleanTitle keeps letters, digits, spaces, '-', '_' and '.' and trims
// trailing whitespace. An empty result becomes FallbackBaseName.
func CleanTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	if cleaned == "" {
		return FallbackBaseName
	}
	return cleaned
}

// BuildTemplate returns the extractor output template for a download.
// Without a custom title the extractor picks the name from metadata.
func BuildTemplate(outputDir, customTitle string, playlist bool) string {
	return BuildTemplateWidth(outputDir, customTitle, playlist, DefaultPlaylistIndexWidth)
}

// BuildTemplateWidth is BuildTemplate with an explicit playlist index width.
// In playlist mode the zero-padded item index prefixes the name so entries
// with equal titles never collide.
func BuildTemplateWidth(outputDir, customTitle string, playlist bool, width int) string {
	name := TitleField
	if customTitle != "" {
		name = CleanTitle(customTitle)
	}
	if playlist {
		if width < 1 {
			width = DefaultPlaylistIndexWidth
		}
		name = fmt.Sprintf("%%(playlist_index)0%dd%s%s", width, PlaylistIndexSeparator, name)
	}
	return filepath.Join(outputDir, name+"."+ExtField)
}

// DirectBaseName returns the base filename for a browser-captured media URL
func DirectBaseName(title string) string {
	if title == "" {
		return FallbackBaseName
	}
	return Sanitize(title)
}

// DirectTemplate is the extractor output template for a direct download
func DirectTemplate(outputDir, title string) string {
	return filepath.Join(outputDir, DirectBaseName(title)+"."+ExtField)
}

// DirectPath is the concrete output path for a direct download with ext
// (including the leading dot).
func DirectPath(outputDir, title, ext string) string {
	return filepath.Join(outputDir, DirectBaseName(title)+ext)
}
