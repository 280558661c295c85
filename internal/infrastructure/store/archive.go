package store

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// ArchiveStore keeps installed plugin files as entries of a single zip
// archive used as a virtual plugins folder. Entry names equal the plugin file
// names. Every mutation rewrites the archive to a temp file and renames it
// into place.
type ArchiveStore struct {
	path string
}

// NewArchiveStore creates an archive store backed by the zip file at path.
// The file is created lazily on the first Put.
func NewArchiveStore(path string) *ArchiveStore {
	return &ArchiveStore{path: path}
}

// Path returns the archive file path.
func (a *ArchiveStore) Path() string {
	return a.path
}

// Names returns the archive entry names. A missing archive yields an empty
// list.
func (a *ArchiveStore) Names() ([]string, error) {
	reader, err := zip.OpenReader(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open archive %s: %w", a.path, err)
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// Put adds the file at src to the archive under the given entry name,
// replacing any existing entry with the same name. The archive is created if
// it does not exist yet.
func (a *ArchiveStore) Put(name, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	var existing []*zip.File
	reader, err := zip.OpenReader(a.path)
	if err == nil {
		existing = reader.File
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to open archive %s: %w", a.path, err)
	}

	writeErr := a.writeArchive(func(w *zip.Writer) error {
		for _, f := range existing {
			if f.Name == name {
				continue
			}
			if err := copyEntry(w, f); err != nil {
				return err
			}
		}
		entry, err := w.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", name, err)
		}
		return nil
	})

	if reader != nil {
		reader.Close()
	}
	return writeErr
}

// Remove drops the named entry. When the archive has no entries left, the
// archive file itself is deleted. A missing archive or entry is not an error.
func (a *ArchiveStore) Remove(name string) error {
	reader, err := zip.OpenReader(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open archive %s: %w", a.path, err)
	}

	kept := make([]*zip.File, 0, len(reader.File))
	for _, f := range reader.File {
		if f.Name != name {
			kept = append(kept, f)
		}
	}

	if len(kept) == 0 {
		reader.Close()
		if err := os.Remove(a.path); err != nil {
			return fmt.Errorf("failed to remove empty archive: %w", err)
		}
		return nil
	}

	writeErr := a.writeArchive(func(w *zip.Writer) error {
		for _, f := range kept {
			if err := copyEntry(w, f); err != nil {
				return err
			}
		}
		return nil
	})

	reader.Close()
	return writeErr
}

// writeArchive writes a fresh archive via a temp file and renames it over the
// current one.
func (a *ArchiveStore) writeArchive(fill func(w *zip.Writer) error) error {
	tmp := a.path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	w := zip.NewWriter(out)
	if err := fill(w); err != nil {
		w.Close()
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Close(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	if err := os.Rename(tmp, a.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save archive: %w", err)
	}
	return nil
}

// copyEntry copies one entry from an existing archive into w.
func copyEntry(w *zip.Writer, f *zip.File) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := w.Create(f.Name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", f.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy archive entry %s: %w", f.Name, err)
	}
	return nil
}
