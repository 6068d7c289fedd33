// Package hasher fingerprints exported artifacts with xxHash64.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// ShortLen is the number of hex chars used in content-addressed filenames.
const ShortLen = 8

// Sum returns the 16-char hex xxHash64 of data.
func Sum(data []byte) string {
	return encode(xxhash.Sum64(data))
}

// Short returns the first ShortLen hex chars of Sum.
func Short(data []byte) string {
	return Sum(data)[:ShortLen]
}

// SumReader streams r through xxHash64.
func SumReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return encode(h.Sum64()), nil
}

// SumFile hashes the file at path.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sum, err := SumReader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

func encode(v uint64) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, v))
}
