package jpio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ScratchFile is a disk-backed temporary file for staging a section on disk
// (§4.5). Pack, Unpack and the encoder/decoder work in memory and do not
// create scratch files, whatever the data size or the LargeFile flag. Its
// lifetime is the single call that created it (§9,
// "Ownership of scratch files"): callers acquire it with NewScratchFile and
// must defer Close, which removes the file on disk.
//
// Scratch files are named from the output path with the suffixes the spec
// names explicitly: .values, .strings, .comp, .comp.tmp.
type ScratchFile struct {
	f    *os.File
	path string
}

// NewScratchFile creates (or truncates) a scratch file at basePath+suffix.
func NewScratchFile(basePath, suffix string) (*ScratchFile, error) {
	path := basePath + suffix
	f, err := os.OpenFile(filepath.Clean(path), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("jpio: create scratch file %s: %w", path, err)
	}
	return &ScratchFile{f: f, path: path}, nil
}

// Write appends to the scratch file.
func (s *ScratchFile) Write(p []byte) (int, error) { return s.f.Write(p) }

// Seek repositions the scratch file's cursor, mirroring the "seek" primitive
// the spec lists among the byte-level I/O collaborators (§1).
func (s *ScratchFile) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

// ReadAll rewinds the scratch file and returns its full contents.
func (s *ScratchFile) ReadAll() ([]byte, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("jpio: seek scratch file %s: %w", s.path, err)
	}
	return io.ReadAll(s.f)
}

// Size reports the current on-disk length.
func (s *ScratchFile) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close closes and removes the scratch file. Safe to call multiple times.
func (s *ScratchFile) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
		if err == nil {
			err = rmErr
		}
	}
	return err
}

// ScratchSet owns the four named scratch files of the disk-staged layout
// (§4.5): values, strings, the compressed/encrypted data section,
// and a temp file for in-place transform staging. CleanupAll removes
// whichever of them were created, safe to call on every exit path
// (success, error) as §9 requires.
type ScratchSet struct {
	Values  *ScratchFile
	Strings *ScratchFile
	Comp    *ScratchFile
	CompTmp *ScratchFile
}

// NewScratchSet creates all four scratch files rooted at basePath.
func NewScratchSet(basePath string) (*ScratchSet, error) {
	set := &ScratchSet{}
	var err error

	if set.Values, err = NewScratchFile(basePath, ".values"); err != nil {
		return nil, err
	}
	if set.Strings, err = NewScratchFile(basePath, ".strings"); err != nil {
		set.CleanupAll()
		return nil, err
	}
	if set.Comp, err = NewScratchFile(basePath, ".comp"); err != nil {
		set.CleanupAll()
		return nil, err
	}
	if set.CompTmp, err = NewScratchFile(basePath, ".comp.tmp"); err != nil {
		set.CleanupAll()
		return nil, err
	}

	return set, nil
}

// CleanupAll closes and removes every scratch file that was created,
// ignoring nil entries.
func (s *ScratchSet) CleanupAll() {
	for _, f := range []*ScratchFile{s.Values, s.Strings, s.Comp, s.CompTmp} {
		if f != nil {
			_ = f.Close()
		}
	}
}
