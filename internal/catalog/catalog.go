// Package catalog groups uploaded file records into categories and keeps each
// category's aggregate size current.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a category or file does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidFile is returned for uploads without a usable name, size or category.
var ErrInvalidFile = errors.New("invalid file")

// DefaultMimeType is recorded when an upload carries no content type.
const DefaultMimeType = "application/octet-stream"

// FileRecord is one file stored on exactly one provider in exactly one category.
type FileRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SizeBytes    int64     `json:"sizeBytes"`
	MimeType     string    `json:"mimeType"`
	CategoryID   string    `json:"categoryId"`
	ProviderID   string    `json:"providerId"`
	LastModified time.Time `json:"lastModified"`
}

// Category is an ordered group of files. TotalSizeBytes is recomputed after
// every change.
type Category struct {
	ID             string       `json:"id"`
	DisplayName    string       `json:"displayName"`
	Files          []FileRecord `json:"files"`
	TotalSizeBytes int64        `json:"totalSizeBytes"`
}

func (c *Category) recompute() {
	var total int64
	for _, f := range c.Files {
		if f.SizeBytes > math.MaxInt64-total {
			total = math.MaxInt64
			break
		}
		total += f.SizeBytes
	}
	c.TotalSizeBytes = total
}

func (c *Category) clone() Category {
	out := *c
	out.Files = make([]FileRecord, len(c.Files))
	copy(out.Files, c.Files)
	return out
}

// Ledger is the subset of the storage ledger the catalog charges uploads to.
type Ledger interface {
	Debit(providerID string, bytes int64) error
	Credit(providerID string, bytes int64) error
}

// defaults are the categories every catalog starts with.
var defaults = []struct{ id, name string }{
	{"work", "Work"},
	{"documents", "Documents"},
	{"photos", "Photos"},
	{"videos", "Videos"},
}

// Catalog maps category ids to categories in creation order. It is not safe
// for concurrent use; callers serialize access.
type Catalog struct {
	categories []*Category
	index      map[string]int
	ledger     Ledger
	now        func() time.Time
	newID      func() string
}

// New creates a catalog seeded with the default categories that charges
// uploads against l.
func New(l Ledger) *Catalog {
	c := &Catalog{
		index:  make(map[string]int),
		ledger: l,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, d := range defaults {
		c.add(d.id, d.name)
	}
	return c
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug turns a category name into its id: lowercased, whitespace runs
// replaced by a single dash.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

func (c *Catalog) add(id, name string) *Category {
	cat := &Category{ID: id, DisplayName: name, Files: []FileRecord{}}
	c.index[id] = len(c.categories)
	c.categories = append(c.categories, cat)
	return cat
}

func (c *Catalog) category(key string) (*Category, bool) {
	i, ok := c.index[Slug(key)]
	if !ok {
		return nil, false
	}
	return c.categories[i], true
}

// Has reports whether a category exists for key.
func (c *Catalog) Has(key string) bool {
	_, ok := c.category(key)
	return ok
}

// Category returns a copy of the category named by key.
func (c *Catalog) Category(key string) (Category, error) {
	cat, ok := c.category(key)
	if !ok {
		return Category{}, fmt.Errorf("category %q: %w", key, ErrNotFound)
	}
	return cat.clone(), nil
}

// Upload records a new file in the category named by categoryKey, creating
// the category when it does not exist, and debits the provider. When the
// debit fails nothing changes.
func (c *Catalog) Upload(categoryKey, fileName string, sizeBytes int64, mimeType, providerID string) (FileRecord, error) {
	id := Slug(categoryKey)
	switch {
	case id == "":
		return FileRecord{}, fmt.Errorf("%w: category is required", ErrInvalidFile)
	case strings.TrimSpace(fileName) == "":
		return FileRecord{}, fmt.Errorf("%w: name is required", ErrInvalidFile)
	case sizeBytes < 0:
		return FileRecord{}, fmt.Errorf("%w: negative size %d", ErrInvalidFile, sizeBytes)
	}

	if err := c.ledger.Debit(providerID, sizeBytes); err != nil {
		return FileRecord{}, fmt.Errorf("debit %s: %w", providerID, err)
	}

	cat, ok := c.category(id)
	if !ok {
		cat = c.add(id, strings.TrimSpace(categoryKey))
	}
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	rec := FileRecord{
		ID:           c.newID(),
		Name:         fileName,
		SizeBytes:    sizeBytes,
		MimeType:     mimeType,
		CategoryID:   cat.ID,
		ProviderID:   providerID,
		LastModified: c.now().UTC(),
	}
	cat.Files = append(cat.Files, rec)
	cat.recompute()
	return rec, nil
}

// Find returns the file with fileID in the category named by categoryKey.
func (c *Catalog) Find(fileID, categoryKey string) (FileRecord, error) {
	cat, ok := c.category(categoryKey)
	if !ok {
		return FileRecord{}, fmt.Errorf("category %q: %w", categoryKey, ErrNotFound)
	}
	for _, f := range cat.Files {
		if f.ID == fileID {
			return f, nil
		}
	}
	return FileRecord{}, fmt.Errorf("file %q: %w", fileID, ErrNotFound)
}

// Remove deletes the file and credits its provider. When the category or
// file is missing nothing changes.
func (c *Catalog) Remove(fileID, categoryKey string) (FileRecord, error) {
	cat, ok := c.category(categoryKey)
	if !ok {
		return FileRecord{}, fmt.Errorf("category %q: %w", categoryKey, ErrNotFound)
	}
	pos := -1
	for i, f := range cat.Files {
		if f.ID == fileID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return FileRecord{}, fmt.Errorf("file %q: %w", fileID, ErrNotFound)
	}

	rec := cat.Files[pos]
	if err := c.ledger.Credit(rec.ProviderID, rec.SizeBytes); err != nil {
		return FileRecord{}, fmt.Errorf("credit %s: %w", rec.ProviderID, err)
	}
	cat.Files = append(cat.Files[:pos], cat.Files[pos+1:]...)
	cat.recompute()
	return rec, nil
}

// Restore inserts a file that already exists in the backing store. The
// ledger is not charged; persisted usage already accounts for it.
func (c *Catalog) Restore(rec FileRecord, categoryName string) {
	if categoryName == "" {
		categoryName = rec.CategoryID
	}
	id := rec.CategoryID
	if id == "" {
		id = Slug(categoryName)
	}
	cat, ok := c.category(id)
	if !ok {
		cat = c.add(id, categoryName)
	}
	rec.CategoryID = cat.ID
	cat.Files = append(cat.Files, rec)
	cat.recompute()
}

// Drop removes a category and its records without touching the ledger. It
// reports whether the category existed.
func (c *Catalog) Drop(key string) bool {
	id := Slug(key)
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.categories = append(c.categories[:i], c.categories[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.categories); j++ {
		c.index[c.categories[j].ID] = j
	}
	return true
}

// List returns the files of a category, oldest first.
func (c *Catalog) List(categoryKey string) ([]FileRecord, error) {
	cat, ok := c.category(categoryKey)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryKey, ErrNotFound)
	}
	out := make([]FileRecord, len(cat.Files))
	copy(out, cat.Files)
	return out, nil
}

// Categories returns copies of every category in creation order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.clone())
	}
	return out
}
