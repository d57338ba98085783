package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// sniffLen is the number of leading bytes http.DetectContentType looks at.
const sniffLen = 512

// ValidateFileTypeFromContent sniffs the real content type of an uploaded
// file and checks it against allowedTypes. The Content-Type header sent by
// the client is ignored.
func ValidateFileTypeFromContent(fileHeader *multipart.FileHeader, allowedTypes []string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, sniffLen)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if n == 0 {
		return "", errors.New("file is empty")
	}

	contentType := http.DetectContentType(buffer[:n])
	if !ContainsString(allowedTypes, contentType) {
		return "", fmt.Errorf("invalid file type: %s", contentType)
	}
	return contentType, nil
}

// GetFileExtensionFromContentType maps a detected content type onto a file
// extension with leading dot. Unknown types map to the empty string.
func GetFileExtensionFromContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
