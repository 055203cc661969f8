package viewer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/store"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// abort maps err onto a status code and a JSON body. Cycles carry the
// offending path so a client can highlight it.
func (s *Server) abort(c *gin.Context, err error) {
	var (
		apiErr apiError
		cycle  *graph.CycleError
	)
	switch {
	case errors.As(err, &apiErr):
		c.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Message})
	case errors.As(err, &cycle):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": cycle.Error(),
			"cycle": cycle.Path,
		})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": http.StatusText(http.StatusInternalServerError),
		})
	}
}
