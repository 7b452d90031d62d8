// Package paginator splits a listing into fixed size pages numbered from 1.
package paginator

import (
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PageQueryParam is the query parameter carrying the requested page number.
const PageQueryParam = "page"

type Paginator struct {
	Count   int64
	PerPage int
}

func New(count int64, perPage int) *Paginator {
	if perPage <= 0 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages is never 0: an empty listing still has one empty page.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// GetPage resolves a raw page number leniently: anything that is not an
// integer gives the first page, anything out of range gives the last one.
func (p *Paginator) GetPage(raw string) *Page {
	number, err := strconv.Atoi(raw)
	if err != nil {
		number = 1
	}
	if number < 1 || number > p.NumPages() {
		number = p.NumPages()
	}
	return &Page{Number: number, paginator: p}
}

type Page struct {
	Number int
	// Items is the loaded slice of the page, set by Paginate.
	Items     interface{}
	paginator *Paginator
}

func (p *Page) Paginator() *Paginator {
	return p.paginator
}

func (p *Page) NumPages() int {
	return p.paginator.NumPages()
}

func (p *Page) Count() int64 {
	return p.paginator.Count
}

// Offset is the index of the first item of the page in the whole listing.
func (p *Page) Offset() int {
	return (p.Number - 1) * p.paginator.PerPage
}

// Len is the number of items on this page.
func (p *Page) Len() int {
	remaining := p.paginator.Count - int64(p.Offset())
	if remaining <= 0 {
		return 0
	}
	if remaining > int64(p.paginator.PerPage) {
		return p.paginator.PerPage
	}
	return int(remaining)
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page) NextPageNumber() int {
	return p.Number + 1
}

func (p *Page) PreviousPageNumber() int {
	return p.Number - 1
}

// StartIndex is the 1-based index of the first item on the page, 0 when the
// listing is empty.
func (p *Page) StartIndex() int {
	if p.paginator.Count == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (p *Page) EndIndex() int {
	return p.Offset() + p.Len()
}

// PageRange lists every page number, for rendering page links.
func (p *Page) PageRange() []int {
	pages := make([]int, p.NumPages())
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Paginate counts the rows matched by query, resolves the requested page and
// loads its rows into dest, a pointer to a slice. query only filters, ordering
// and preloads go in loadScopes. The count query must stay unordered for postgres.
func Paginate(query *gorm.DB, raw string, perPage int, dest interface{}, loadScopes ...func(*gorm.DB) *gorm.DB) (*Page, error) {
	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "fail to count page rows")
	}
	page := New(count, perPage).GetPage(raw)
	if err := query.Session(&gorm.Session{}).Scopes(loadScopes...).Offset(page.Offset()).Limit(perPage).Find(dest).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load page rows")
	}
	page.Items = dest
	return page, nil
}
