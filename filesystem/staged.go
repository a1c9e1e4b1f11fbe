package filesystem

import (
	"io/fs"
	"path/filepath"
	"sync"
)

// StagedFile is a write recorded by Staged.
type StagedFile struct {
	Path     string
	Original []byte // Content before the first staged write (nil if the file did not exist)
	Existed  bool
	Content  []byte // Latest staged content
	Mode     fs.FileMode
}

// Staged is an FS that records writes in memory instead of touching disk.
// Reads see staged content first and fall through to the base FS, so a
// modify action that follows an add in the same run behaves as it would
// on disk.
type Staged struct {
	base  FS
	mu    sync.Mutex
	files map[string]*StagedFile
	dirs  map[string]bool
	order []string
}

// NewStaged creates a staged overlay on top of base.
func NewStaged(base FS) *Staged {
	if base == nil {
		base = OS{}
	}
	return &Staged{
		base:  base,
		files: make(map[string]*StagedFile),
		dirs:  make(map[string]bool),
	}
}

func (s *Staged) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	f, ok := s.files[filepath.Clean(path)]
	s.mu.Unlock()

	if ok {
		return append([]byte(nil), f.Content...), nil
	}
	return s.base.ReadFile(path)
}

// WriteFile stages a write. The original content is captured on the first
// write to a path so that Changes can be diffed against it.
func (s *Staged) WriteFile(path string, data []byte, perm fs.FileMode) error {
	key := filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.files[key]; ok {
		f.Content = append([]byte(nil), data...)
		f.Mode = perm
		return nil
	}

	existed, err := s.base.Exists(key)
	if err != nil {
		return err
	}

	var original []byte
	if existed {
		original, err = s.base.ReadFile(key)
		if err != nil {
			return err
		}
	}

	s.files[key] = &StagedFile{
		Path:     key,
		Original: original,
		Existed:  existed,
		Content:  append([]byte(nil), data...),
		Mode:     perm,
	}
	s.order = append(s.order, key)
	return nil
}

func (s *Staged) MkdirAll(path string, perm fs.FileMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		s.dirs[dir] = true
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return nil
}

func (s *Staged) Exists(path string) (bool, error) {
	key := filepath.Clean(path)

	s.mu.Lock()
	_, isFile := s.files[key]
	isDir := s.dirs[key]
	s.mu.Unlock()

	if isFile || isDir {
		return true, nil
	}
	return s.base.Exists(key)
}

// Changes returns staged files in the order they were first written.
func (s *Staged) Changes() []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StagedFile, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.files[key])
	}
	return out
}
