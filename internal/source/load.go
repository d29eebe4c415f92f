package source

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load reads a file from disk and normalizes it: UTF-16 content (detected by
// BOM) is transcoded to UTF-8, a UTF-8 BOM is stripped, and CRLF pairs become
// plain \n. The hash is computed over the normalized content so that cache
// keys are stable across checkout line-ending settings.
func Load(path string) (*File, error) {
	// #nosec G304 -- path comes from discovery under the caller's root
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newFile(path, content, 0), nil
}

// NewVirtual wraps in-memory content (tests, stdin) in a File.
func NewVirtual(name string, content []byte) *File {
	return newFile(name, content, FileVirtual)
}

func newFile(path string, content []byte, flags FileFlags) *File {
	content, decoded := decodeUTF16(content)
	if decoded {
		flags |= FileDecodedUTF16
	}
	content, hadBOM := trimBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}

	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// decodeUTF16 transcodes UTF-16 content to UTF-8 when a UTF-16 BOM is
// present. Content without that BOM passes through untouched.
func decodeUTF16(content []byte) ([]byte, bool) {
	if len(content) < 2 {
		return content, false
	}
	le := content[0] == 0xFF && content[1] == 0xFE
	be := content[0] == 0xFE && content[1] == 0xFF
	if !le && !be {
		return content, false
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, content)
	if err != nil {
		// Malformed UTF-16 falls through as raw bytes; the adapter will
		// degrade it to an Unknown tree if it cannot parse.
		return content, false
	}
	return out, true
}

func trimBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		return content[3:], true
	}
	return content, false
}

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- i < len(content) which fits uint32 for any real source file
		}
	}
	return out
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
