package api

import (
	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

// bookRequest is the body of create and update requests.
// A missing or null name decodes to a nil Name.
type bookRequest struct {
	Name      *string `json:"name"`
	Year      any     `json:"year"`
	Author    string  `json:"author"`
	Summary   string  `json:"summary"`
	Publisher string  `json:"publisher"`
	PageCount int     `json:"pageCount"`
	ReadPage  int     `json:"readPage"`
	Reading   bool    `json:"reading"`
}

func (r bookRequest) toFields() bookstore.BookFields {
	return bookstore.BookFields{
		Name:      r.Name,
		Year:      r.Year,
		Author:    r.Author,
		Summary:   r.Summary,
		Publisher: r.Publisher,
		PageCount: r.PageCount,
		ReadPage:  r.ReadPage,
		Reading:   r.Reading,
	}
}
