package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Controller handles general HTTP requests.
type Controller struct{}

// New creates a new Controller.
func New() *Controller {
	return &Controller{}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

// writeError maps pipeline errors onto the wire contract: validation
// failures are 400 with the verbatim rule message; everything else,
// including not-found lookups, is 500 carrying the error's string.
// Existing clients depend on the 500-for-not-found mapping.
func writeError(c *gin.Context, err error) {
	var validationErr *repository.ValidationError
	if errors.As(err, &validationErr) {
		c.String(http.StatusBadRequest, validationErr.Message)
		return
	}
	c.String(http.StatusInternalServerError, err.Error())
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
