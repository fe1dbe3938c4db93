package crawler

import (
	"regexp"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// exifImagePattern matches image URLs whose formats carry EXIF blocks.
var exifImagePattern = regexp.MustCompile(`(?i)\.(jpe?g|tiff?|heic)(?:\?[^#]*)?(?:#.*)?$`)

// exifTextTags are the EXIF tags holding free text written by people.
var exifTextTags = map[string]bool{
	"Artist":           true,
	"Copyright":        true,
	"ImageDescription": true,
	"XPAuthor":         true,
	"XPKeywords":       true,
	"XPSubject":        true,
	"XPTitle":          true,
	"XPComment":        true,
	"Make":             true,
	"Model":            true,
}

// isEXIFImage reports whether imageURL looks like a JPEG, TIFF or HEIC.
func isEXIFImage(imageURL string) bool {
	return exifImagePattern.MatchString(imageURL)
}

// ExtractEXIFText returns the values of the text tags found in the EXIF
// block of an image. Data without EXIF yields nil.
func ExtractEXIFText(data []byte) []string {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil
	}

	var out []string
	for _, entry := range entries {
		if !exifTextTags[entry.TagName] {
			continue
		}
		if value := strings.Trim(strings.TrimSpace(entry.Formatted), "[]\x00"); value != "" {
			out = append(out, value)
		}
	}
	return out
}
