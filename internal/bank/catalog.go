package bank

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog lists the banks stored as files in a directory.
// The bank id is the file name without extension.
type Catalog struct{ dir string }

func NewCatalog(dir string) *Catalog { return &Catalog{dir: dir} }

type reader struct {
	ext  string
	read func(string, *os.File) (*Bank, error)
}

// readers by lower-case file extension.
var readers = []reader{
	{".csv", func(id string, f *os.File) (*Bank, error) { return ReadCSV(id, f) }},
	{".xlsx", func(id string, f *os.File) (*Bank, error) { return ReadXLSX(id, f) }},
}

func readerFor(ext string) (reader, bool) {
	for _, r := range readers {
		if r.ext == strings.ToLower(ext) {
			return r, true
		}
	}
	return reader{}, false
}

// files maps each bank id to the file that backs it. Extensions match
// case-insensitively; a .csv wins over an .xlsx with the same id.
func (c *Catalog) files() (map[string]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}
	files := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		ext := filepath.Ext(name)
		if _, ok := readerFor(ext); !ok {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if prev, ok := files[id]; ok && strings.EqualFold(filepath.Ext(prev), ".csv") {
			continue
		}
		files[id] = name
	}
	return files, nil
}

// List returns the available bank ids, sorted and unique.
func (c *Catalog) List() ([]string, error) {
	files, err := c.files()
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Load opens and parses the bank with the given id.
func (c *Catalog) Load(id string) (*Bank, error) {
	if id == "" || strings.HasPrefix(id, ".") || id != filepath.Base(id) {
		return nil, fmt.Errorf("%w: %q", ErrBankNotFound, id)
	}
	files, err := c.files()
	if err != nil {
		return nil, fmt.Errorf("load bank %q: %w", id, err)
	}
	name, ok := files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBankNotFound, id)
	}
	r, _ := readerFor(filepath.Ext(name))
	f, err := os.Open(filepath.Join(c.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.read(id, f)
}
