package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for ids that do not name a file in the store.
var ErrNotFound = errors.New("audio file not found")

const (
	tempPrefix    = "temp_"
	pausePrefix   = "pause_"
	podcastPrefix = "podcast_"
	mp3Ext        = ".mp3"
)

// Storage is a flat directory of generated audio. There is no index: the
// directory listing is the source of truth.
type Storage struct {
	Dir string
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audio dir %s: %w", dir, err)
	}
	return &Storage{Dir: dir}, nil
}

func NewID() string {
	return uuid.New().String()
}

func SpeechName(id string) string { return id + mp3Ext }

func PodcastName(id string) string { return podcastPrefix + id + mp3Ext }

func SegmentName(podcastID string, i int) string {
	return fmt.Sprintf("%s%s_%d%s", tempPrefix, podcastID, i, mp3Ext)
}

func PauseName(podcastID string, i int) string {
	return fmt.Sprintf("%s%s_%d%s", pausePrefix, podcastID, i, mp3Ext)
}

// Path resolves a file name inside the store. Names that would escape the
// directory resolve to ErrNotFound.
func (s *Storage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrNotFound
	}
	return filepath.Join(s.Dir, name), nil
}

func (s *Storage) Write(name string, data []byte) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Create opens a new file for writing.
func (s *Storage) Create(name string) (*os.File, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return f, nil
}

func (s *Storage) Open(name string) (*os.File, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// Stat reports whether name exists as a regular file.
func (s *Storage) Stat(name string) (os.FileInfo, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return nil, ErrNotFound
	}
	return info, err
}

// Remove deletes files, ignoring errors. Used for temporary segments.
func (s *Storage) Remove(names ...string) {
	for _, name := range names {
		if p, err := s.Path(name); err == nil {
			_ = os.Remove(p)
		}
	}
}

// OpenAll returns readers over the named files in order. The caller closes
// them with the returned func.
func (s *Storage) OpenAll(names []string) ([]io.Reader, func(), error) {
	files := make([]*os.File, 0, len(names))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	readers := make([]io.Reader, 0, len(names))
	for _, name := range names {
		f, err := s.Open(name)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return readers, closeAll, nil
}

type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// List returns the regular files of the store, newest first.
func (s *Storage) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Dir, err)
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue // removed while listing
		}
		entries = append(entries, Entry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Prune keeps the newest keep finished files and deletes the rest. Segment
// and pause files belong to running podcast jobs and are left alone.
func (s *Storage) Prune(keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	var removed []string
	kept := 0
	for _, e := range entries {
		if IsTemporary(e.Name) {
			continue
		}
		if kept < keep {
			kept++
			continue
		}
		p, _ := s.Path(e.Name)
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("removing %s: %w", e.Name, err)
		}
		removed = append(removed, e.Name)
	}
	return removed, nil
}

func IsTemporary(name string) bool {
	return strings.HasPrefix(name, tempPrefix) || strings.HasPrefix(name, pausePrefix)
}
