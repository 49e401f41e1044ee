package source

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fortio.org/safecast"

	"textlen/internal/editor"
	"textlen/internal/length"
)

// ErrOffsetOutOfRange is returned for byte offsets past the end of a file.
var ErrOffsetOutOfRange = errors.New("byte offset out of range")

// FileSet manages a collection of source files and measures them as lengths.
// Safe for concurrent use.
type FileSet struct {
	mu        sync.RWMutex
	files     []*File
	index     map[string]FileID // path -> id
	baseDir   string            // базовая директория для относительных путей
	unit      length.Unit
	normalize Normalization
}

// NewFileSet creates a new empty FileSet measuring UTF-16 columns.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	fileSet.baseDir = dir
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// SetUnit selects the column unit for files added afterwards.
func (fileSet *FileSet) SetUnit(u length.Unit) {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	fileSet.unit = u
}

// SetNormalization selects the normalization Load applies.
func (fileSet *FileSet) SetNormalization(n Normalization) {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	fileSet.normalize = n
}

// Add stores a file from already-normalized bytes, measures it, and returns a
// new FileID. It always creates a new FileID even if the path is known.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) (FileID, error) {
	lineIdx, err := buildLineIndex(content)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if bytes.IndexByte(content, '\r') >= 0 {
		flags |= FileHasCR
	}
	normalizedPath := normalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		return 0, fmt.Errorf("len files overflow: %w", err)
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, &File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		Unit:    fileSet.unit,
		Length:  length.OfBytes(content, fileSet.unit),
	})
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id, nil
}

// Load reads a file from disk, strips a BOM, applies the configured
// normalization and calls Add. Line endings are kept as they are.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	fileSet.mu.RLock()
	mode := fileSet.normalize
	fileSet.mu.RUnlock()

	flags := FileFlags(0)
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if mode == NormalizeNFC {
		var changed bool
		if content, changed = normalizeNFC(content); changed {
			flags |= FileNormalizedNFC
		}
	}
	return fileSet.Add(path, content, flags)
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) (FileID, error) {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID, or nil if unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// Len returns the number of files added so far.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return fileSet.files[id], true
	}
	return nil, false
}

// LineCount returns the number of lines, counting an empty last line.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// lineOf returns the 0-based line containing byte offset off.
func (f *File) lineOf(off uint32) int {
	// бинпоиск: количество начал строк <= off
	return sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] > off })
}

// LengthAt measures the content from the start of the file to byte offset
// off. An offset between the CR and LF of a pair resolves to the end of the
// line.
func (f *File) LengthAt(off int) (length.Length, error) {
	if off < 0 || off > len(f.Content) {
		return length.Zero, fmt.Errorf("%w: %d (size %d)", ErrOffsetOutOfRange, off, len(f.Content))
	}
	off32, err := safecast.Conv[uint32](off)
	if err != nil {
		return length.Zero, fmt.Errorf("offset overflow: %w", err)
	}
	line := f.lineOf(off32)
	var start uint32
	if line > 0 {
		start = f.LineIdx[line-1]
	}
	segment := bytes.TrimSuffix(f.Content[start:off32], []byte{'\r'})
	lineCount, err := safecast.Conv[uint32](line)
	if err != nil {
		return length.Zero, fmt.Errorf("line overflow: %w", err)
	}
	return length.New(lineCount, length.OfBytes(segment, f.Unit).ColumnCount()), nil
}

// Position returns the editor position of byte offset off.
func (f *File) Position(off int) (editor.Position, error) {
	l, err := f.LengthAt(off)
	if err != nil {
		return editor.Position{}, err
	}
	return length.ToPosition(l), nil
}

// GetLine возвращает строку с заданным номером (1-based) без перевода строки.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > f.LineCount() {
		return ""
	}
	var start, end int
	if lineNum > 1 {
		start = int(f.LineIdx[lineNum-2])
	}
	if lineNum <= len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	} else {
		end = len(f.Content)
	}
	return string(bytes.TrimRight(f.Content[start:end], "\r\n"))
}

// LongestLine returns the widest line measured in the file's unit and its
// 1-based line number.
func (f *File) LongestLine() (width uint32, lineNum int) {
	for n := 1; n <= f.LineCount(); n++ {
		w := length.OfStringIn(f.GetLine(n), f.Unit).ColumnCount()
		if w > width || lineNum == 0 {
			width, lineNum = w, n
		}
	}
	return width, lineNum
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// Auto: если путь короткий или относительный - как есть, иначе basename
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
