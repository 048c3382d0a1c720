package shipments

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when no shipment exists under the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shipment %q not found", e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}
