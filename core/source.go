// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/devblok/shaderstage/utility/kar"
	"github.com/gobuffalo/packd"
	"github.com/gobuffalo/packr"
	"golang.org/x/exp/mmap"
)

// NewDirSource creates a Source over a filesystem directory
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// DirSource lists one directory, it never descends into subdirectories.
type DirSource struct {
	dir string
}

// Entries implements interface. The order is whatever the
// filesystem returns, it's not sorted.
func (s *DirSource) Entries() ([]string, error) {
	f, err := os.Open(s.dir)
	if err != nil {
		return nil, &IOError{Op: "open", Path: s.dir, Err: err}
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, &IOError{Op: "readdir", Path: s.dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if s.regular(e) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// regular keeps plain files and links to them, anything else
// (a FIFO for one) may block forever when read.
func (s *DirSource) regular(e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(s.Path(e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// ReadFile implements interface
func (s *DirSource) ReadFile(name string) ([]byte, error) {
	data, err := ioutil.ReadFile(s.Path(name))
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.Path(name), Err: err}
	}
	return data, nil
}

// Path returns the filesystem path of an entry
func (s *DirSource) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *DirSource) String() string {
	return s.dir
}

// NewBoxSource creates a Source over shaders packed into a packr box
func NewBoxSource(box packr.Box) *BoxSource {
	return &BoxSource{box: box}
}

// BoxSource serves shaders from the top level of a packr box.
type BoxSource struct {
	box packr.Box
}

// Entries implements interface
func (s *BoxSource) Entries() ([]string, error) {
	var names []string
	if err := s.box.Walk(func(name string, _ packd.File) error {
		if topLevel(name) {
			names = append(names, name)
		}
		return nil
	}); err != nil {
		return nil, &IOError{Op: "walk", Path: s.String(), Err: err}
	}
	return names, nil
}

// ReadFile implements interface
func (s *BoxSource) ReadFile(name string) ([]byte, error) {
	data, err := s.box.Find(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.Path(name), Err: err}
	}
	return data, nil
}

// Path returns the in-box path of an entry
func (s *BoxSource) Path(name string) string {
	return path.Join(s.String(), name)
}

func (s *BoxSource) String() string {
	return "packr:" + s.box.Path
}

// OpenArchive memory maps a kar archive and serves shaders from it.
// The source must be closed when it's no longer needed.
func OpenArchive(filename string) (*ArchiveSource, error) {
	r, err := mmap.Open(filename)
	if err != nil {
		return nil, &IOError{Op: "open", Path: filename, Err: err}
	}

	archive, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, &IOError{Op: "open", Path: filename, Err: err}
	}

	source := NewArchiveSource(filename, archive)
	source.closer = r
	return source, nil
}

// NewArchiveSource creates a Source over an already opened archive
func NewArchiveSource(name string, archive *kar.Archive) *ArchiveSource {
	return &ArchiveSource{
		name:    name,
		archive: archive,
	}
}

// ArchiveSource serves shaders from the top level of a kar archive.
type ArchiveSource struct {
	name    string
	archive *kar.Archive
	closer  io.Closer
}

// Entries implements interface, in archive index order
func (s *ArchiveSource) Entries() ([]string, error) {
	var names []string
	for _, name := range s.archive.Names() {
		if topLevel(name) {
			names = append(names, name)
		}
	}
	return names, nil
}

// ReadFile implements interface
func (s *ArchiveSource) ReadFile(name string) ([]byte, error) {
	data, err := s.archive.ReadAll(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.Path(name), Err: err}
	}
	return data, nil
}

// Path returns the archive path of an entry
func (s *ArchiveSource) Path(name string) string {
	return s.name + ":" + name
}

func (s *ArchiveSource) String() string {
	return s.name
}

// Close releases the memory mapping, if OpenArchive created one
func (s *ArchiveSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func topLevel(name string) bool {
	return !strings.ContainsAny(name, `/\`)
}

// joinSource names an entry for errors and descriptors
func joinSource(src Source, name string) string {
	if p, ok := src.(interface{ Path(string) string }); ok {
		return p.Path(name)
	}
	return src.String() + "/" + name
}
