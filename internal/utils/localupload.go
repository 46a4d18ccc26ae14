package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const UploadBasePath = "./uploads"

func InitLocalStorage() error {
	if err := os.MkdirAll(UploadBasePath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %v", err)
	}
	return nil
}

// WriteLocal stores raw upload bytes under the same key layout the S3
// mode uses, so switching storage modes never breaks stored paths.
func WriteLocal(key string, data []byte) (string, error) {
	fullPath, err := safeLocalPath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return "/" + strings.TrimPrefix(fullPath, "./"), nil
}

func DeleteFromLocal(key string) error {
	fullPath, err := safeLocalPath(key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", key)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

func LocalFileExists(key string) bool {
	fullPath, err := safeLocalPath(key)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(fullPath)
	return !os.IsNotExist(statErr)
}

// safeLocalPath resolves a storage key inside the uploads directory and
// rejects traversal outside it.
func safeLocalPath(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	key = strings.TrimPrefix(key, "uploads/")

	fullPath := filepath.Join(UploadBasePath, key)

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %v", err)
	}
	baseAbs, err := filepath.Abs(UploadBasePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %v", err)
	}
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}
	if !strings.HasPrefix(absPath, baseAbs) {
		return "", fmt.Errorf("file path outside uploads directory")
	}

	return fullPath, nil
}
