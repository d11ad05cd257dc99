// Package utils holds small helpers shared by the HTTP and service layers.
package utils

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page of a record listing.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads the page and page_size query values. Missing or
// unparsable values take the defaults, then the result is normalized.
func ParsePage(number, size string) Page {
	return Page{
		Number: atoiDefault(number, 1),
		Size:   atoiDefault(size, DefaultPageSize),
	}.Normalize()
}

// Normalize clamps the page number to at least 1 and the size to
// [1, MaxPageSize]. A size of 0 or less means the default size.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages is how many pages of p.Size hold total rows.
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// HasNext reports whether a page follows p.
func (p Page) HasNext(total int64) bool {
	return p.Number < p.TotalPages(total)
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
