// Package roster loads the enrolled identities from a directory of images.
// Filenames become identities; the external encoder turns each image into a
// reference embedding.
package roster

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/encoder"
)

// Entry is one enrolled identity. Immutable after load.
type Entry struct {
	Name      string
	Embedding []float32
}

// Roster is the ordered list of enrolled identities. Entries keep
// directory-listing order; duplicate names are allowed (same person
// enrolled twice) and matching picks by index order.
type Roster struct {
	entries []Entry
}

// FromEntries builds a roster from pre-encoded entries. Used by tests and
// by callers that enroll programmatically.
func FromEntries(entries []Entry) *Roster {
	return &Roster{entries: entries}
}

// Entries returns the loaded entries in directory-listing order.
func (r *Roster) Entries() []Entry {
	return r.entries
}

// Len returns the number of enrolled entries.
func (r *Roster) Len() int {
	return len(r.entries)
}

// Names returns the display names in index order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// IsEnrollmentImage reports whether a filename has a recognized image
// extension.
func IsEnrollmentImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, recognized := range constants.RosterImageExtensions {
		if ext == recognized {
			return true
		}
	}
	return false
}

// ProgressFunc is called after each enrollment image is processed.
type ProgressFunc func(filename string, enrolled bool)

// Load scans dir for enrollment images and encodes each one. A missing
// directory is created and yields an empty roster. Images that fail to read,
// fail to encode, or contain no face are skipped with a log line; whatever
// subset loads becomes the roster. Load never fails on per-file errors.
func Load(ctx context.Context, dir string, enc encoder.FaceEncoder) (*Roster, error) {
	return LoadWithProgress(ctx, dir, enc, nil)
}

// LoadWithProgress is Load with a per-file progress callback, used by the
// enrollment CLI to drive a progress bar.
func LoadWithProgress(ctx context.Context, dir string, enc encoder.FaceEncoder, progress ProgressFunc) (*Roster, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating images directory: %w", err)
		}
		log.Printf("Created empty images directory %s", dir)
		return &Roster{}, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading images directory: %w", err)
	}

	r := &Roster{}
	seen := make(map[string]string)
	for _, file := range files {
		if file.IsDir() || !IsEnrollmentImage(file.Name()) {
			continue
		}

		entry, err := loadOne(ctx, dir, file.Name(), enc)
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			if progress != nil {
				progress(file.Name(), false)
			}
			continue
		}
		if prev, ok := seen[NormalizeName(entry.Name)]; ok {
			log.Printf("%s enrolls the same name as %s; both embeddings kept", file.Name(), prev)
		}
		seen[NormalizeName(entry.Name)] = file.Name()
		r.entries = append(r.entries, *entry)
		log.Printf("Enrolled %s as %s", file.Name(), entry.Name)
		if progress != nil {
			progress(file.Name(), true)
		}
	}

	log.Printf("Roster loaded: %d entries", len(r.entries))
	return r, nil
}

// loadOne reads and encodes a single enrollment image. When the encoder
// reports several faces, the first one is used.
func loadOne(ctx context.Context, dir, filename string, enc encoder.FaceEncoder) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	faces, err := enc.DetectFaces(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("no face detected")
	}
	if len(faces) > 1 {
		log.Printf("%s contains %d faces, using the first", filename, len(faces))
	}

	return &Entry{
		Name:      DisplayName(filename),
		Embedding: faces[0].Embedding,
	}, nil
}
