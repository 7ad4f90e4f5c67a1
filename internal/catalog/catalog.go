// Package catalog holds the ordered list of resources advertised on the hub.
package catalog

import "errors"

// ErrResourceNotFound is returned when an ID does not match any resource.
var ErrResourceNotFound = errors.New("resource not found")

// Status is the availability of a resource.
type Status string

const (
	StatusLive       Status = "live"
	StatusComingSoon Status = "coming-soon"
)

// IsValid checks if the status is one of the allowed values.
func (s Status) IsValid() bool {
	switch s {
	case StatusLive, StatusComingSoon:
		return true
	default:
		return false
	}
}

// Label returns the badge text shown on the resource card.
func (s Status) Label() string {
	if s == StatusLive {
		return "Live"
	}
	return "Coming Soon"
}

// MediaType describes how the default card media is rendered.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Resource describes one externally hosted asset or page.
// Resources are immutable for the lifetime of a page render.
type Resource struct {
	ID          string
	Title       string
	Description string
	Link        string
	Status      Status
	ButtonLabel string

	// MediaDefault is the card media shown at rest.
	MediaDefault string
	MediaType    MediaType
	// ImageHover replaces the default media while hovered.
	ImageHover string
}

// IsLive reports whether the resource can be opened.
func (r Resource) IsLive() bool {
	return r.Status == StatusLive
}

// Catalog is an ordered, read-only list of resources.
type Catalog struct {
	items []Resource
	index map[string]int
}

// New creates a catalog preserving the given order.
// Later duplicates of an ID are shadowed by the first occurrence.
func New(resources []Resource) *Catalog {
	c := &Catalog{
		items: make([]Resource, len(resources)),
		index: make(map[string]int, len(resources)),
	}
	copy(c.items, resources)
	for i, r := range c.items {
		if _, ok := c.index[r.ID]; !ok {
			c.index[r.ID] = i
		}
	}
	return c
}

// All returns every resource in configuration order.
func (c *Catalog) All() []Resource {
	out := make([]Resource, len(c.items))
	copy(out, c.items)
	return out
}

// Live returns only the resources that accept open requests.
func (c *Catalog) Live() []Resource {
	out := make([]Resource, 0, len(c.items))
	for _, r := range c.items {
		if r.IsLive() {
			out = append(out, r)
		}
	}
	return out
}

// Find looks up a resource by ID.
func (c *Catalog) Find(id string) (Resource, error) {
	i, ok := c.index[id]
	if !ok {
		return Resource{}, ErrResourceNotFound
	}
	return c.items[i], nil
}

// Len returns the number of resources.
func (c *Catalog) Len() int {
	return len(c.items)
}
