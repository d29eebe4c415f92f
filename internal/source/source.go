package source

import (
	"fmt"

	"fortio.org/safecast"
)

// FileFlags encodes normalization metadata about a loaded file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileDecodedUTF16
)

// File is one loaded source file. Content is normalized UTF-8 with \n line
// endings; LineIdx holds the byte offset of every '\n' and is built once at
// load so that line lookups never rescan the content.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCount returns the number of lines, counting a trailing line without \n.
func (f *File) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	if len(f.Content) == 0 {
		return 0
	}
	last := f.Content[len(f.Content)-1]
	if last == '\n' {
		return n
	}
	return n + 1
}

// lineBounds returns the [start, end) byte offsets of a 1-based line,
// excluding the trailing '\n'. Out-of-range lines yield an empty bound at EOF.
func (f *File) lineBounds(line uint32) (start, end uint32) {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	lenIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}

	switch {
	case line == 0:
		return lenContent, lenContent
	case line == 1:
		start = 0
	case line-2 < lenIdx:
		start = f.LineIdx[line-2] + 1
	default:
		return lenContent, lenContent
	}

	if line-1 < lenIdx {
		end = f.LineIdx[line-1]
	} else {
		end = lenContent
	}
	if start > lenContent {
		start = lenContent
	}
	if end > lenContent {
		end = lenContent
	}
	return start, end
}

// Line returns the text of a 1-based line without its trailing '\n'.
// A line number past EOF yields "".
func (f *File) Line(line uint32) string {
	start, end := f.lineBounds(line)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// Slice returns the content between (lineStart, colStart) inclusive and
// (lineEnd, colEnd) exclusive. Lines are 1-based, columns are 0-based byte
// offsets within their line. Both endpoints are clamped to the content, so
// Slice never panics on spans produced by an error-tolerant parser.
func (f *File) Slice(lineStart, colStart, lineEnd, colEnd uint32) string {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	sBound, _ := f.lineBounds(lineStart)
	eBound, _ := f.lineBounds(lineEnd)

	start := sBound + colStart
	end := eBound + colEnd
	if start > lenContent {
		start = lenContent
	}
	if end > lenContent {
		end = lenContent
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// Lines splits the content into lines without trailing '\n'. The result is a
// fresh slice; callers may keep it.
func (f *File) Lines() []string {
	count := f.LineCount()
	out := make([]string, 0, count)
	for i := uint32(1); i <= count; i++ {
		out = append(out, f.Line(i))
	}
	return out
}
