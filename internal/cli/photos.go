package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// savePhotos writes the photo of every contact that has one into dir and
// returns how many were written. Files are named after the company, or
// the first and last names, falling back on the contact identifier.
func savePhotos(dir string, contacts contact.Map) (int, error) {
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	used := make(map[string]bool)
	saved := 0
	for _, id := range contacts.IDs() {
		c := contacts[id]
		if c == nil || len(c.Photo()) == 0 {
			continue
		}

		name := photoName(c)
		if name == "" || used[name] {
			name = cleanFileName(name + id)
		}
		file := name + config.ExtJPEG
		if !filepath.IsLocal(file) || filepath.Base(file) != file {
			return saved, fmt.Errorf("%s: %q", config.ErrPhotoName, file)
		}
		used[name] = true

		photo := c.Photo()
		if err := writeFile(filepath.Join(dir, file), func(w io.Writer) error {
			_, err := w.Write(photo)
			return err
		}); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func photoName(c *contact.Contact) string {
	name := c.Get(contact.CompanyName)
	if name == "" {
		name = c.Get(contact.FirstName) + c.Get(contact.LastName)
	}
	return cleanFileName(name)
}

// cleanFileName replaces path separators and turns dot-only names into
// underscores, so the result is a single path element.
func cleanFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	if strings.Trim(name, ".") == "" {
		return strings.Repeat("_", len(name))
	}
	return name
}
