package response

import (
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// Envelope is the uniform response contract for every endpoint, collection
// and report alike: success flag, human message, payload under data or rows,
// field violations under errors, and an ISO timestamp.
type Envelope struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Data      interface{}            `json:"data,omitempty"`
	Rows      interface{}            `json:"rows,omitempty"`
	Count     *int                   `json:"count,omitempty"`
	Errors    []appErrors.FieldError `json:"errors,omitempty"`
	Detail    string                 `json:"detail,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

var debug bool

// SetDebug controls whether error responses carry underlying error detail.
// Only enabled in development; production responses stay generic.
func SetDebug(enabled bool) {
	debug = enabled
}

// Success sends a success envelope with a single payload object.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Message: message, Data: data, Timestamp: time.Now().UTC()})
}

// Rows sends a success envelope carrying a collection payload. An empty
// collection always renders as [], never null.
func Rows(c *gin.Context, status int, message string, rows interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Message: message, Rows: normalizeRows(rows), Timestamp: time.Now().UTC()})
}

// RowsCount behaves like Rows and additionally reports the collection length.
func RowsCount(c *gin.Context, status int, message string, rows interface{}) {
	rows = normalizeRows(rows)
	count := 0
	if v := reflect.ValueOf(rows); v.Kind() == reflect.Slice {
		count = v.Len()
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Message: message, Rows: rows, Count: &count, Timestamp: time.Now().UTC()})
}

func normalizeRows(rows interface{}) interface{} {
	if rows == nil {
		return []interface{}{}
	}
	v := reflect.ValueOf(rows)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return rows
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Error sends an error envelope converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	envelope := Envelope{
		Success:   false,
		Message:   appErr.Message,
		Errors:    appErr.Fields,
		Timestamp: time.Now().UTC(),
	}
	if debug && appErr.Err != nil {
		envelope.Detail = appErr.Err.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, envelope)
}
