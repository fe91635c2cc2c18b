package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseAttachmentFlag splits an --attach flag value of the form
// /path/to/file[:displayname]. The display name defaults to the file's
// basename. A lone colon after a Windows drive letter is not treated as
// a separator.
func ParseAttachmentFlag(value string) (path, name string, err error) {
	if value == "" {
		return "", "", fmt.Errorf("attachment path cannot be empty")
	}

	lastColon := strings.LastIndex(value, ":")
	isWindowsDrive := lastColon == 1 && len(value) > 2 && (value[2] == '\\' || value[2] == '/')

	if lastColon > 1 && !isWindowsDrive {
		path = value[:lastColon]
		name = value[lastColon+1:]
		if name == "" {
			name = filepath.Base(path)
		}
		return path, name, nil
	}

	path = value
	name = filepath.Base(path)
	return path, name, nil
}

var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".csv":  "text/csv",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".html": "text/html",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".wav":  "audio/wav",
}

// MimeType guesses a content type from the filename extension, falling
// back to application/octet-stream.
func MimeType(filename string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// SanitizeFilename reduces a server-supplied attachment name to a safe
// local filename. Path separators, control characters, leading dots and
// Windows reserved device names are neutralized so a hostile name can
// never escape the download directory or hide the file.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")

	var clean strings.Builder
	for _, r := range name {
		if r >= 32 && r != 127 {
			clean.WriteRune(r)
		}
	}
	name = clean.String()

	// Strips directory components, including ../ traversal.
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	name = strings.TrimLeft(name, ".")

	reservedNames := []string{
		"CON", "PRN", "AUX", "NUL",
		"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
		"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
	}
	nameUpper := strings.ToUpper(name)
	for _, reserved := range reservedNames {
		if nameUpper == reserved || strings.HasPrefix(nameUpper, reserved+".") {
			name = "_" + name
			break
		}
	}

	// Most filesystems cap names at 255 bytes; keep the extension when
	// truncating.
	if len(name) > 255 {
		ext := filepath.Ext(name)
		if len(ext) < 20 && len(ext) > 0 {
			name = name[:255-len(ext)] + ext
		} else {
			name = name[:255]
		}
	}

	if name == "" || name == "." || name == ".." {
		return "attachment"
	}

	return name
}
