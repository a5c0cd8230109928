package api_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookstore-go/api"
	"github.com/AntonStoeckl/bookstore-go/bookstore/memengine"
	"github.com/AntonStoeckl/bookstore-go/testutil/helper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type responseBody struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	store  *memengine.BookStore
	clock  *helper.FakeClock
}

func newTestServer(t *testing.T, options ...api.Option) *testServer {
	t.Helper()

	clock := helper.NewFakeClock(time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC))
	store, err := memengine.NewBookStore(
		memengine.WithIDGenerator(helper.SequentialIDs("book")),
		memengine.WithClock(clock.Now),
	)
	require.NoError(t, err)

	engine, err := api.NewRouter(store, options...)
	require.NoError(t, err)

	return &testServer{engine: engine, store: store, clock: clock}
}

func (s *testServer) do(t *testing.T, method, target, body string) (int, responseBody) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	s.engine.ServeHTTP(recorder, req)

	var decoded responseBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), "response is not JSON: %s", recorder.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	return recorder.Code, decoded
}

func (s *testServer) givenBookWasCreated(t *testing.T, body string) string {
	t.Helper()

	status, resp := s.do(t, http.MethodPost, "/books", body)
	require.Equal(t, http.StatusCreated, status, "error in arranging test data: %s", resp.Message)

	return resp.Data["bookId"].(string)
}

func bookJSON(name string, pageCount, readPage int, reading bool) string {
	payload, _ := json.Marshal(map[string]any{
		"name":      name,
		"year":      2010,
		"author":    "John Doe",
		"summary":   "Lorem ipsum dolor sit amet",
		"publisher": "Penguin Books",
		"pageCount": pageCount,
		"readPage":  readPage,
		"reading":   reading,
	})

	return string(payload)
}

func listedIDs(t *testing.T, resp responseBody) []string {
	t.Helper()

	books, ok := resp.Data["books"].([]any)
	require.True(t, ok, "data.books should be an array")

	ids := make([]string, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.(map[string]any)["id"].(string))
	}

	return ids
}

func Test_NewRouter_RejectsInvalidInput(t *testing.T) {
	_, err := api.NewRouter(nil)
	assert.ErrorIs(t, err, api.ErrNilBookStore)

	store, err := memengine.NewBookStore()
	require.NoError(t, err)
	_, err = api.NewRouter(store, api.WithAllowedOrigin(""))
	assert.ErrorIs(t, err, api.ErrEmptyAllowedOrigin)
}

func Test_CreateBook_Success(t *testing.T) {
	server := newTestServer(t)

	status, resp := server.do(t, http.MethodPost, "/books", bookJSON("Dune", 412, 12, true))

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Buku berhasil ditambahkan", resp.Message)
	assert.Equal(t, "book-1", resp.Data["bookId"])
	assert.Equal(t, 1, server.store.Len())
}

func Test_CreateBook_Failures(t *testing.T) {
	testCases := []struct {
		name            string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "missing name",
			body:            `{"year":2010,"pageCount":10,"readPage":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal menambahkan buku. Mohon isi nama buku",
		},
		{
			name:            "null name",
			body:            `{"name":null,"pageCount":10,"readPage":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal menambahkan buku. Mohon isi nama buku",
		},
		{
			name:            "readPage greater than pageCount",
			body:            bookJSON("Dune", 10, 11, true),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal menambahkan buku. readPage tidak boleh lebih besar dari pageCount",
		},
		{
			name:            "readPage without pageCount",
			body:            `{"name":"Dune","readPage":5}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal menambahkan buku. readPage tidak boleh lebih besar dari pageCount",
		},
		{
			name:           "malformed json",
			body:           `{"name":`,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "wrong field type",
			body:           `{"name":"Dune","pageCount":"many"}`,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t)

			status, resp := server.do(t, http.MethodPost, "/books", tc.body)

			assert.Equal(t, tc.expectedStatus, status)
			assert.Equal(t, "fail", resp.Status)
			if tc.expectedMessage != "" {
				assert.Equal(t, tc.expectedMessage, resp.Message)
			} else {
				assert.NotEmpty(t, resp.Message, "the raw decoder error should be returned")
			}
			assert.Nil(t, resp.Data)
			assert.Equal(t, 0, server.store.Len(), "a failed create must not mutate the collection")
		})
	}
}

func Test_CreateBook_When_NoUniqueIDCanBeGenerated(t *testing.T) {
	store, err := memengine.NewBookStore(
		memengine.WithIDGenerator(helper.RepeatingIDs("same")),
		memengine.WithMaxIDAttempts(1),
	)
	require.NoError(t, err)
	engine, err := api.NewRouter(store)
	require.NoError(t, err)
	server := &testServer{engine: engine, store: store}
	server.givenBookWasCreated(t, bookJSON("Dune", 1, 0, true))

	status, resp := server.do(t, http.MethodPost, "/books", bookJSON("Emma", 1, 0, true))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "Buku gagal ditambahkan", resp.Message)
	assert.Equal(t, 1, store.Len())
}

func Test_CreateThenGet_FinishedIsDerived(t *testing.T) {
	server := newTestServer(t)
	finishedID := server.givenBookWasCreated(t, bookJSON("Dune", 412, 412, false))
	unfinishedID := server.givenBookWasCreated(t, bookJSON("Emma", 300, 12, true))

	_, finished := server.do(t, http.MethodGet, "/books/"+finishedID, "")
	_, unfinished := server.do(t, http.MethodGet, "/books/"+unfinishedID, "")

	assert.Equal(t, true, finished.Data["book"].(map[string]any)["finished"])
	assert.Equal(t, false, unfinished.Data["book"].(map[string]any)["finished"])
}

func Test_GetBook_ReturnsTheFullRecord(t *testing.T) {
	server := newTestServer(t)
	id := server.givenBookWasCreated(t, bookJSON("Dune", 412, 12, true))

	status, resp := server.do(t, http.MethodGet, "/books/"+id, "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Message)
	assert.Equal(t, map[string]any{
		"id":         id,
		"name":       "Dune",
		"year":       float64(2010),
		"author":     "John Doe",
		"summary":    "Lorem ipsum dolor sit amet",
		"publisher":  "Penguin Books",
		"pageCount":  float64(412),
		"readPage":   float64(12),
		"finished":   false,
		"reading":    true,
		"insertedAt": "2025-03-14T09:26:53.589Z",
		"updatedAt":  "2025-03-14T09:26:53.589Z",
	}, resp.Data["book"])
}

func Test_CreateThenGet_YearIsEchoedUnchanged(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedYear any
	}{
		{name: "number", body: `{"name":"Dune","year":1965}`, expectedYear: float64(1965)},
		{name: "string", body: `{"name":"Dune","year":"1965"}`, expectedYear: "1965"},
		{name: "free text", body: `{"name":"Dune","year":"circa 1965"}`, expectedYear: "circa 1965"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t)
			id := server.givenBookWasCreated(t, tc.body)

			status, resp := server.do(t, http.MethodGet, "/books/"+id, "")

			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tc.expectedYear, resp.Data["book"].(map[string]any)["year"])
		})
	}
}

func Test_CreateThenGet_AbsentYearIsOmitted(t *testing.T) {
	server := newTestServer(t)
	id := server.givenBookWasCreated(t, `{"name":"Dune","pageCount":10}`)

	status, resp := server.do(t, http.MethodGet, "/books/"+id, "")

	require.Equal(t, http.StatusOK, status)
	book := resp.Data["book"].(map[string]any)
	assert.NotContains(t, book, "year")
	assert.Equal(t, "Dune", book["name"])
}

func Test_GetBook_NotFound(t *testing.T) {
	server := newTestServer(t)

	status, resp := server.do(t, http.MethodGet, "/books/unknown", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "Buku tidak ditemukan", resp.Message)
}

func Test_ListBooks(t *testing.T) {
	server := newTestServer(t)
	warAndPeace := server.givenBookWasCreated(t, bookJSON("War and Peace", 1225, 1225, false))
	peace := server.givenBookWasCreated(t, bookJSON("Peace", 200, 20, true))
	dune := server.givenBookWasCreated(t, bookJSON("Dune", 412, 412, true))
	emma := server.givenBookWasCreated(t, bookJSON("Emma", 300, 3, false))

	testCases := []struct {
		name        string
		query       string
		expectedIDs []string
	}{
		{name: "no filter keeps insertion order", query: "", expectedIDs: []string{warAndPeace, peace, dune, emma}},
		{name: "name is a case insensitive substring", query: "?name=war", expectedIDs: []string{warAndPeace}},
		{name: "name matching several books", query: "?name=PEACE", expectedIDs: []string{warAndPeace, peace}},
		{name: "empty name imposes no constraint", query: "?name=", expectedIDs: []string{warAndPeace, peace, dune, emma}},
		{name: "reading=1", query: "?reading=1", expectedIDs: []string{peace, dune}},
		{name: "reading=0 is the complement", query: "?reading=0", expectedIDs: []string{warAndPeace, emma}},
		{name: "finished=1", query: "?finished=1", expectedIDs: []string{warAndPeace, dune}},
		{name: "finished=0", query: "?finished=0", expectedIDs: []string{peace, emma}},
		{name: "filters are conjunctive", query: "?reading=1&finished=1", expectedIDs: []string{dune}},
		{name: "all three filters", query: "?name=e&reading=0&finished=0", expectedIDs: []string{emma}},
		{name: "invalid flag is ignored", query: "?reading=yes", expectedIDs: []string{warAndPeace, peace, dune, emma}},
		{name: "no match yields an empty list", query: "?name=zzz", expectedIDs: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := server.do(t, http.MethodGet, "/books"+tc.query, "")

			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "success", resp.Status)
			assert.Equal(t, tc.expectedIDs, listedIDs(t, resp))
		})
	}
}

func Test_ListBooks_ReturnsOnlySummaryFields(t *testing.T) {
	server := newTestServer(t)
	id := server.givenBookWasCreated(t, bookJSON("Dune", 412, 12, true))

	_, resp := server.do(t, http.MethodGet, "/books", "")

	assert.Equal(t, []any{
		map[string]any{"id": id, "name": "Dune", "publisher": "Penguin Books"},
	}, resp.Data["books"])
}

func Test_UpdateBook_RoundTrip(t *testing.T) {
	// setup
	server := newTestServer(t)
	id := server.givenBookWasCreated(t, bookJSON("Dune", 412, 12, true))
	_, before := server.do(t, http.MethodGet, "/books/"+id, "")
	server.clock.Advance(90 * time.Second)

	// act
	status, resp := server.do(t, http.MethodPut, "/books/"+id,
		`{"name":"Dune Messiah","year":1969,"author":"Frank Herbert","summary":"Sequel","publisher":"Putnam","pageCount":256,"readPage":256,"reading":false}`)

	// assert
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Buku berhasil diperbarui", resp.Message)

	_, after := server.do(t, http.MethodGet, "/books/"+id, "")
	beforeBook := before.Data["book"].(map[string]any)
	afterBook := after.Data["book"].(map[string]any)

	assert.Equal(t, id, afterBook["id"])
	assert.Equal(t, "Dune Messiah", afterBook["name"])
	assert.Equal(t, float64(1969), afterBook["year"])
	assert.Equal(t, "Frank Herbert", afterBook["author"])
	assert.Equal(t, "Sequel", afterBook["summary"])
	assert.Equal(t, "Putnam", afterBook["publisher"])
	assert.Equal(t, float64(256), afterBook["pageCount"])
	assert.Equal(t, float64(256), afterBook["readPage"])
	assert.Equal(t, true, afterBook["finished"])
	assert.Equal(t, false, afterBook["reading"])
	assert.Equal(t, beforeBook["insertedAt"], afterBook["insertedAt"])
	assert.Equal(t, "2025-03-14T09:28:23.589Z", afterBook["updatedAt"])
}

func Test_UpdateBook_Failures(t *testing.T) {
	testCases := []struct {
		name            string
		target          string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "missing name",
			target:          "/books/book-1",
			body:            `{"pageCount":10,"readPage":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal memperbarui buku. Mohon isi nama buku",
		},
		{
			name:            "readPage greater than pageCount",
			target:          "/books/book-1",
			body:            bookJSON("Dune", 10, 11, true),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal memperbarui buku. readPage tidak boleh lebih besar dari pageCount",
		},
		{
			name:            "unknown id",
			target:          "/books/unknown",
			body:            bookJSON("Dune", 10, 1, true),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Gagal memperbarui buku. Id tidak ditemukan",
		},
		{
			name:            "validation wins over unknown id",
			target:          "/books/unknown",
			body:            `{"pageCount":10,"readPage":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Gagal memperbarui buku. Mohon isi nama buku",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t)
			server.givenBookWasCreated(t, bookJSON("Original", 100, 50, true))
			_, before := server.do(t, http.MethodGet, "/books/book-1", "")

			status, resp := server.do(t, http.MethodPut, tc.target, tc.body)

			assert.Equal(t, tc.expectedStatus, status)
			assert.Equal(t, "fail", resp.Status)
			assert.Equal(t, tc.expectedMessage, resp.Message)

			_, after := server.do(t, http.MethodGet, "/books/book-1", "")
			assert.Equal(t, before.Data, after.Data, "a failed update must leave the collection unchanged")
			assert.Equal(t, 1, server.store.Len())
		})
	}
}

func Test_DeleteBook_Twice(t *testing.T) {
	server := newTestServer(t)
	first := server.givenBookWasCreated(t, bookJSON("A", 1, 0, true))
	second := server.givenBookWasCreated(t, bookJSON("B", 1, 0, true))
	third := server.givenBookWasCreated(t, bookJSON("C", 1, 0, true))

	firstStatus, firstResp := server.do(t, http.MethodDelete, "/books/"+second, "")
	secondStatus, secondResp := server.do(t, http.MethodDelete, "/books/"+second, "")

	assert.Equal(t, http.StatusOK, firstStatus)
	assert.Equal(t, "success", firstResp.Status)
	assert.Equal(t, "Buku berhasil dihapus", firstResp.Message)

	assert.Equal(t, http.StatusNotFound, secondStatus)
	assert.Equal(t, "fail", secondResp.Status)
	assert.Equal(t, "Buku gagal dihapus. Id tidak ditemukan", secondResp.Message)

	getStatus, _ := server.do(t, http.MethodGet, "/books/"+second, "")
	assert.Equal(t, http.StatusNotFound, getStatus)

	_, list := server.do(t, http.MethodGet, "/books", "")
	assert.Equal(t, []string{first, third}, listedIDs(t, list))
}

func Test_Healthz_ReportsTheNumberOfBooks(t *testing.T) {
	server := newTestServer(t)
	server.givenBookWasCreated(t, bookJSON("Dune", 1, 0, true))

	status, resp := server.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, float64(1), resp.Data["books"])
}

func Test_UnknownRoute(t *testing.T) {
	server := newTestServer(t)

	status, resp := server.do(t, http.MethodGet, "/authors", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "Route not found", resp.Message)
}
