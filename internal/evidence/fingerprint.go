package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Fingerprint is the tamper-evidence anchor for one piece of content.
type Fingerprint struct {
	DigestHex    string
	Size         int64
	DetectedType string
}

// ComputeFingerprint streams r through SHA-256 and returns the lowercase hex
// digest plus the byte count. The content is consumed incrementally; it is
// never buffered whole. A short or failed read returns ErrStorage and no
// partial digest.
func ComputeFingerprint(r io.Reader, filename string) (Fingerprint, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%w: reading content: %v", ErrStorage, err)
	}
	return Fingerprint{
		DigestHex:    hex.EncodeToString(h.Sum(nil)),
		Size:         n,
		DetectedType: DetectType(filename),
	}, nil
}

// DetectType derives a best-effort content type hint from the filename
// extension. Untrusted, display-only: never use it for execution or
// security decisions.
func DetectType(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
