package media

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postmedia/internal/common"
)

// Format is a supported media extension including its leading dot.
type Format string

const (
	FormatMP4 Format = ".mp4"
	FormatFBX Format = ".fbx"
)

// Ext returns the format without the dot.
func (f Format) Ext() string { return strings.TrimPrefix(string(f), ".") }

// ContentType is "video/<ext>" for every format.
func (f Format) ContentType() string { return "video/" + f.Ext() }

// ParseFormat accepts "mp4", ".mp4", "fbx" and ".fbx".
func ParseFormat(s string) (Format, error) {
	switch Format("." + strings.TrimPrefix(s, ".")) {
	case FormatMP4:
		return FormatMP4, nil
	case FormatFBX:
		return FormatFBX, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrorInvalidFormat, s)
	}
}

// ExtensionOf returns what follows the last dot of filename, or "" when
// there is no dot.
func ExtensionOf(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return filename[i+1:]
}

// uploadFormat maps a filename to its Format. Matching is case-sensitive.
func uploadFormat(filename string) (Format, error) {
	switch ext := ExtensionOf(filename); ext {
	case FormatMP4.Ext(), FormatFBX.Ext():
		return Format("." + ext), nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrorInvalidFormat, filename)
	}
}
