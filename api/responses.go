package api

import (
	"time"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"

	// timestampLayout renders UTC timestamps with millisecond precision, e.g. 2025-01-01T10:00:00.000Z.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

const (
	msgBookAdded             = "Buku berhasil ditambahkan"
	msgBookUpdated           = "Buku berhasil diperbarui"
	msgBookDeleted           = "Buku berhasil dihapus"
	msgAddMissingName        = "Gagal menambahkan buku. Mohon isi nama buku"
	msgAddReadPageExceeds    = "Gagal menambahkan buku. readPage tidak boleh lebih besar dari pageCount"
	msgAddFailed             = "Buku gagal ditambahkan"
	msgListFailed            = "Gagal mendapatkan buku"
	msgBookNotFound          = "Buku tidak ditemukan"
	msgUpdateMissingName     = "Gagal memperbarui buku. Mohon isi nama buku"
	msgUpdateReadPageExceeds = "Gagal memperbarui buku. readPage tidak boleh lebih besar dari pageCount"
	msgUpdateIDNotFound      = "Gagal memperbarui buku. Id tidak ditemukan"
	msgDeleteIDNotFound      = "Buku gagal dihapus. Id tidak ditemukan"
	msgRouteNotFound         = "Route not found"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func successEnvelope(message string, data any) envelope {
	return envelope{Status: statusSuccess, Message: message, Data: data}
}

func failEnvelope(message string) envelope {
	return envelope{Status: statusFail, Message: message}
}

type bookIDData struct {
	BookID string `json:"bookId"`
}

type bookData struct {
	Book bookResponse `json:"book"`
}

type booksData struct {
	Books []bookSummaryResponse `json:"books"`
}

type healthData struct {
	Books int `json:"books"`
}

type bookResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Year       any    `json:"year,omitempty"`
	Author     string `json:"author"`
	Summary    string `json:"summary"`
	Publisher  string `json:"publisher"`
	PageCount  int    `json:"pageCount"`
	ReadPage   int    `json:"readPage"`
	Finished   bool   `json:"finished"`
	Reading    bool   `json:"reading"`
	InsertedAt string `json:"insertedAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type bookSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

func toBookResponse(book bookstore.Book) bookResponse {
	return bookResponse{
		ID:         book.ID,
		Name:       book.Name,
		Year:       book.Year,
		Author:     book.Author,
		Summary:    book.Summary,
		Publisher:  book.Publisher,
		PageCount:  book.PageCount,
		ReadPage:   book.ReadPage,
		Finished:   book.Finished,
		Reading:    book.Reading,
		InsertedAt: formatTimestamp(book.InsertedAt),
		UpdatedAt:  formatTimestamp(book.UpdatedAt),
	}
}

func toBookSummaryResponses(summaries []bookstore.BookSummary) []bookSummaryResponse {
	responses := make([]bookSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, bookSummaryResponse{
			ID:        summary.ID,
			Name:      summary.Name,
			Publisher: summary.Publisher,
		})
	}

	return responses
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
