// Package api exposes a BookStore over HTTP.
//
// NewRouter returns a gin.Engine serving the book routes:
//
//	POST   /books       create a book
//	GET    /books       list books, filtered by ?name=, ?reading= and ?finished=
//	GET    /books/:id   get one book
//	PUT    /books/:id   replace the writable fields of a book
//	DELETE /books/:id   delete a book
//	GET    /healthz     report liveness and the number of stored books
//
// Every response is a JSON envelope with a "status" of "success" or "fail".
// Failures carry a human-readable "message".
package api
