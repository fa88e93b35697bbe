package security

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// FileKind selects the whitelist a file is checked against.
type FileKind int

const (
	KindImage FileKind = iota
	KindDocument
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	ContentType  string // Canonical content type to store the object with
	Error        string // Error message if validation failed
}

// Magic byte signatures for allowed file types
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
}

var allowedExtensions = map[FileKind]map[string]string{
	KindImage: {
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
	},
	KindDocument: {
		".pdf":  "application/pdf",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".txt":  "text/plain; charset=utf-8",
	},
}

// Sniffed MIME types accepted per extension. application/octet-stream is never
// accepted on its own.
var sniffedMIME = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/octet-stream", "application/msword"},
	".docx": {"application/zip", "application/octet-stream"},
	".txt":  {"text/plain"},
}

// ValidateFile performs 3-layer file validation:
// 1. Extension whitelist check for the kind
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type must be one expected for the extension
func ValidateFile(kind FileKind, filename string, data []byte) FileValidationResult {
	detected := http.DetectContentType(data)
	result := FileValidationResult{DetectedMIME: detected}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	contentType, ok := allowedExtensions[kind][ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}
	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}

	if ext == ".txt" {
		if !utf8.Valid(data) {
			result.Error = "text file is not valid UTF-8"
			return result
		}
	} else if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	base := strings.TrimSpace(strings.SplitN(detected, ";", 2)[0])
	if !mimeAllowed(ext, base) {
		result.Error = "MIME type not allowed: " + base
		return result
	}

	result.ContentType = contentType
	result.Valid = true
	return result
}

func mimeAllowed(ext, mime string) bool {
	for _, m := range sniffedMIME[ext] {
		if m == mime {
			return true
		}
	}
	return false
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// ValidateFileExtension checks only the extension (for quick pre-validation)
func ValidateFileExtension(kind FileKind, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("file has no extension")
	}
	if _, ok := allowedExtensions[kind][ext]; !ok {
		return errors.New("file extension not allowed: " + ext)
	}
	return nil
}
