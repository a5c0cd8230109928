package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

const (
	queryName     = "name"
	queryReading  = "reading"
	queryFinished = "finished"
	paramID       = "id"

	logMsgInvalidFilter   = "ignoring invalid list filter"
	logMsgUnexpectedError = "unexpected error while handling request"
	logAttrParam          = "param"
	logAttrValue          = "value"
	logAttrError          = "error"
	logAttrMethod         = "method"
	logAttrPath           = "path"
	logAttrRoute          = "route"
	logAttrStatus         = "status"
	logAttrDurationMS     = "duration_ms"
	logAttrClientIP       = "client_ip"
	logAttrPanic          = "panic"
)

// failureMessages maps the store errors of one operation to response messages.
// An empty message means the error is unexpected for the operation.
type failureMessages struct {
	missingName     string
	readPageExceeds string
	notFound        string
	notInserted     string
}

var (
	createFailures = failureMessages{
		missingName:     msgAddMissingName,
		readPageExceeds: msgAddReadPageExceeds,
		notInserted:     msgAddFailed,
	}

	getFailures = failureMessages{
		notFound: msgBookNotFound,
	}

	updateFailures = failureMessages{
		missingName:     msgUpdateMissingName,
		readPageExceeds: msgUpdateReadPageExceeds,
		notFound:        msgUpdateIDNotFound,
	}

	deleteFailures = failureMessages{
		notFound: msgDeleteIDNotFound,
	}
)

func (r *router) createBook(c *gin.Context) {
	var req bookRequest
	if err := decodeJSON(c, &req); err != nil {
		r.respondUnexpected(c, err)
		return
	}

	id, err := r.store.Create(c.Request.Context(), req.toFields())
	if err != nil {
		r.respondFailure(c, createFailures, err)
		return
	}

	renderJSON(c, http.StatusCreated, successEnvelope(msgBookAdded, bookIDData{BookID: id}))
}

func (r *router) listBooks(c *gin.Context) {
	filter := bookstore.BuildListFilter().
		WithNameContaining(c.Query(queryName)).
		WithReading(r.boolFilter(c, queryReading)).
		WithFinished(r.boolFilter(c, queryFinished)).
		Finalize()

	summaries, err := r.store.List(c.Request.Context(), filter)
	if err != nil {
		r.logError(c.Request.Context(), logMsgUnexpectedError, logAttrError, err.Error())
		renderJSON(c, http.StatusInternalServerError, failEnvelope(msgListFailed))
		return
	}

	renderJSON(c, http.StatusOK, successEnvelope("", booksData{Books: toBookSummaryResponses(summaries)}))
}

// boolFilter parses a 0/1 query flag. Invalid values are logged and impose no constraint.
func (r *router) boolFilter(c *gin.Context, param string) bookstore.BoolFlag {
	raw := c.Query(param)

	flag, err := bookstore.ParseBoolFlag(raw)
	if err != nil {
		r.logWarn(c.Request.Context(), logMsgInvalidFilter,
			logAttrParam, param,
			logAttrValue, raw,
			logAttrError, err.Error(),
		)

		return bookstore.FlagUnset
	}

	return flag
}

func (r *router) getBook(c *gin.Context) {
	book, err := r.store.Get(c.Request.Context(), c.Param(paramID))
	if err != nil {
		r.respondFailure(c, getFailures, err)
		return
	}

	renderJSON(c, http.StatusOK, successEnvelope("", bookData{Book: toBookResponse(book)}))
}

func (r *router) updateBook(c *gin.Context) {
	var req bookRequest
	if err := decodeJSON(c, &req); err != nil {
		r.respondUnexpected(c, err)
		return
	}

	if err := r.store.Update(c.Request.Context(), c.Param(paramID), req.toFields()); err != nil {
		r.respondFailure(c, updateFailures, err)
		return
	}

	renderJSON(c, http.StatusOK, successEnvelope(msgBookUpdated, nil))
}

func (r *router) deleteBook(c *gin.Context) {
	if err := r.store.Delete(c.Request.Context(), c.Param(paramID)); err != nil {
		r.respondFailure(c, deleteFailures, err)
		return
	}

	renderJSON(c, http.StatusOK, successEnvelope(msgBookDeleted, nil))
}

func (r *router) healthz(c *gin.Context) {
	renderJSON(c, http.StatusOK, successEnvelope("", healthData{Books: r.store.Len()}))
}

func (r *router) routeNotFound(c *gin.Context) {
	renderJSON(c, http.StatusNotFound, failEnvelope(msgRouteNotFound))
}

// respondFailure maps err to 400 or 404 with the operation's message, anything else is a 500.
func (r *router) respondFailure(c *gin.Context, messages failureMessages, err error) {
	switch {
	case errors.Is(err, bookstore.ErrMissingName) && messages.missingName != "":
		renderJSON(c, http.StatusBadRequest, failEnvelope(messages.missingName))
	case errors.Is(err, bookstore.ErrReadPageExceedsPageCount) && messages.readPageExceeds != "":
		renderJSON(c, http.StatusBadRequest, failEnvelope(messages.readPageExceeds))
	case errors.Is(err, bookstore.ErrBookNotInserted) && messages.notInserted != "":
		renderJSON(c, http.StatusBadRequest, failEnvelope(messages.notInserted))
	case errors.Is(err, bookstore.ErrBookNotFound) && messages.notFound != "":
		renderJSON(c, http.StatusNotFound, failEnvelope(messages.notFound))
	default:
		r.respondUnexpected(c, err)
	}
}

// respondUnexpected answers with 500 and the raw error text.
func (r *router) respondUnexpected(c *gin.Context, err error) {
	r.logError(c.Request.Context(), logMsgUnexpectedError, logAttrError, err.Error())
	renderJSON(c, http.StatusInternalServerError, failEnvelope(err.Error()))
}
