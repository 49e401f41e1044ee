package source

import "textlen/internal/length"

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedNFC
	FileHasCR // contains CR or CRLF line endings
)

// Normalization selects the Unicode normalization applied on Load.
type Normalization uint8

const (
	NormalizeNone Normalization = iota
	NormalizeNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the byte offset where each line after the first starts.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
	Unit    length.Unit
	// Length is the displacement covered by the whole content.
	Length length.Length
}
