package inputval

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadID is returned when a route parameter is not an ObjectID.
var ErrBadID = errors.New("invalid id")

// URLObjectID parses the chi route parameter name as an ObjectID.
func URLObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return primitive.NilObjectID, ErrBadID
	}
	return id, nil
}
