package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

const contentTypeJSON = "application/json; charset=utf-8"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// decodeJSON reads the whole request body into dst.
// An empty body is a decoding error, just like a malformed one.
func decodeJSON(c *gin.Context, dst any) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, dst)
}

// renderJSON writes v with the given status code.
func renderJSON(c *gin.Context, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(failEnvelope(err.Error()))
	}

	c.Data(status, contentTypeJSON, payload)
}
