// Package checksum computes the SHA-256 digests used by the verification
// pass to compare file contents across the two trees.
package checksum

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

const bufferSize = 64 * 1024

// FileSHA256 calculates the SHA-256 checksum of a file and returns it
// base64 encoded.
func FileSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return SHA256(file)
}

// SHA256 calculates the SHA-256 checksum from a reader and returns it
// base64 encoded.
func SHA256(r io.Reader) (string, error) {
	hash := sha256.New()
	buffer := make([]byte, bufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if _, err := hash.Write(buffer[:n]); err != nil {
				return "", fmt.Errorf("write to hash: %w", err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
	}

	return base64.StdEncoding.EncodeToString(hash.Sum(nil)), nil
}
