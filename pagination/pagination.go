// Package pagination slices result sets into pages and builds the
// links between pages.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/util"
	"gorm.io/gorm"
)

// Pager knows which page the client asked for and how to link to
// other pages of the same view.
type Pager struct {
	BaseURL string
	Page    int
	PerPage int
	params  url.Values
}

// Page describes one page of results. Previous is nil on the first
// page. Next is nil on the last page.
type Page struct {
	Count      int64   `json:"count"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
	Previous   *string `json:"previous"`
	Current    string  `json:"current"`
	Next       *string `json:"next"`
}

// New returns a Pager with the default page size limits.
func New(baseURL string, params url.Values) *Pager {
	return NewWithLimits(baseURL, params, constants.DefaultPerPage, constants.DefaultMaxPerPage)
}

// NewWithLimits reads page and per_page from params. Missing or
// invalid values fall back to page 1 and defaultPerPage. PerPage is
// capped at maxPerPage.
func NewWithLimits(baseURL string, params url.Values, defaultPerPage, maxPerPage int) *Pager {
	page := positiveInt(params.Get(constants.ParamPage), 1)
	perPage := positiveInt(params.Get(constants.ParamPerPage), defaultPerPage)
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return &Pager{
		BaseURL: baseURL,
		Page:    page,
		PerPage: perPage,
		params:  carriedParams(params),
	}
}

func positiveInt(s string, defaultValue int) int {
	value, ok := util.ParseInt64(s)
	if !ok || value < 1 || value > int64(^uint32(0)>>1) {
		return defaultValue
	}
	return int(value)
}

// carriedParams keeps the non-empty recognized parameters. Anything
// else in the query string doesn't survive into the page links.
func carriedParams(params url.Values) url.Values {
	carried := url.Values{}
	for _, name := range constants.RecognizedParams {
		for _, value := range params[name] {
			if value != "" {
				carried.Add(name, value)
			}
		}
	}
	return carried
}

// Offset returns the number of records before this page.
func (p *Pager) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// URL returns the link to the specified page, carrying every
// recognized filter, search and sort parameter. Parameters are sorted
// by name, so the same view always has the same URL.
func (p *Pager) URL(page int) string {
	values := url.Values{}
	for name, list := range p.params {
		values[name] = append([]string{}, list...)
	}
	values.Set(constants.ParamPage, strconv.Itoa(page))
	values.Set(constants.ParamPerPage, strconv.Itoa(p.PerPage))
	return p.BaseURL + "?" + values.Encode()
}

// PageFor describes this pager's page of a result set with count
// records.
func (p *Pager) PageFor(count int64) *Page {
	totalPages := int((count + int64(p.PerPage) - 1) / int64(p.PerPage))
	if totalPages < 1 {
		totalPages = 1
	}
	page := &Page{
		Count:      count,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
		Current:    p.URL(p.Page),
	}
	if p.Page > 1 {
		previous := p.URL(p.Page - 1)
		page.Previous = &previous
	}
	if int64(p.Page)*int64(p.PerPage) < count {
		next := p.URL(p.Page + 1)
		page.Next = &next
	}
	return page
}

// Paginate counts the records query matches and loads this pager's
// page of them into dest, which should be a pointer to a slice.
// Query should already be sorted.
func (p *Pager) Paginate(query *gorm.DB, dest any) (*Page, error) {
	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}
	err := query.Session(&gorm.Session{}).
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(dest).Error
	if err != nil {
		return nil, err
	}
	return p.PageFor(count), nil
}

// HasNext returns true if there's a page after this one.
func (page *Page) HasNext() bool {
	return page.Next != nil && *page.Next != ""
}

// HasPrevious returns true if there's a page before this one.
func (page *Page) HasPrevious() bool {
	return page.Previous != nil && *page.Previous != ""
}

// ParamsForNextPage returns the query parameters of the next page's
// link, or nil if there is no next page.
func (page *Page) ParamsForNextPage() url.Values {
	if page.HasNext() {
		if nextURL, err := url.Parse(*page.Next); err == nil {
			return nextURL.Query()
		}
	}
	return nil
}
