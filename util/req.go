package util

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	db2 "github.com/thicket-social/thicket-be/db"
)

type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	DbHTTPErr = HTTPError{
		Message: "database error",
		Status:  http.StatusInternalServerError,
	}
	NotFoundHTTPErr = HTTPError{
		Message: "not found",
		Status:  http.StatusNotFound,
	}
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
)

// BuildDbHTTPErr maps storage errors onto responses. Missing and invisible
// rows both surface as 404; bad cursors and bad page inputs are client
// errors.
func BuildDbHTTPErr(err error) *HTTPError {
	switch {
	case errors.Is(err, db2.ErrNotFound):
		return &NotFoundHTTPErr
	case errors.Is(err, db2.ErrInvalidCursor), errors.Is(err, db2.ErrInvalidPagination):
		return &HTTPError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		}
	}
	return &DbHTTPErr
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("malformed request: %v", err),
	}
}

func ParseId(val string) (int64, *HTTPError) {
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return 0, &MalformedIdHTTPErr
	}
	return id, nil
}

type HandlerOpts struct {
}

/*
HandlerWrapper adapts a (data, *HTTPError) handler into a gin handler with
a uniform response envelope
*/
func HandlerWrapper(handler func(c *gin.Context) (interface{}, *HTTPError), opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

/*
HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
	return
}
