package layoutfile

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/seatgrid/layout"
)

//go:embed samples/*
var samplesFS embed.FS

// Read loads a layout blob from disk, choosing the codec by extension.
func Read(path string) (layout.Serialized, error) {
	f, err := FormatFor(path)
	if err != nil {
		return layout.Serialized{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Serialized{}, fmt.Errorf("read layout: %w", err)
	}
	s, err := Unmarshal(data, f)
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Write saves s to path, choosing the codec by extension.
func Write(path string, s layout.Serialized) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(s, f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// Samples lists the embedded sample names, without extension.
func Samples() []string {
	entries, err := fs.ReadDir(samplesFS, "samples")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Sample returns an embedded sample layout by name.
func Sample(name string) (layout.Serialized, error) {
	entries, err := fs.ReadDir(samplesFS, "samples")
	if err != nil {
		return layout.Serialized{}, err
	}
	for _, e := range entries {
		if strings.TrimSuffix(e.Name(), path.Ext(e.Name())) != name {
			continue
		}
		f, err := FormatFor(e.Name())
		if err != nil {
			return layout.Serialized{}, err
		}
		data, err := samplesFS.ReadFile("samples/" + e.Name())
		if err != nil {
			return layout.Serialized{}, err
		}
		return Unmarshal(data, f)
	}
	return layout.Serialized{}, fmt.Errorf("layoutfile: no sample %q: %w", name, fs.ErrNotExist)
}

// Load resolves name as a file path when one exists on disk and falls back
// to the embedded sample of that name.
func Load(name string) (layout.Serialized, error) {
	if _, err := os.Stat(name); err == nil {
		return Read(name)
	}
	return Sample(name)
}
