package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-state-api/pkg/apierror"
)

// maxBodyBytes bounds request bodies. Entries are small product snapshots.
const maxBodyBytes = 64 << 10

// decodeJSON reads r's body into v, mapping failures to 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apierror.BadRequest("request body too large")
		case errors.Is(err, io.EOF):
			return apierror.BadRequest("request body is required")
		default:
			return apierror.BadRequest("invalid JSON")
		}
	}
	return nil
}

// validator collects field errors for a single request.
type validator struct {
	details []apierror.FieldError
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.details = append(v.details, apierror.FieldError{Field: field, Message: "is required"})
	}
}

func (v *validator) nonNegative(field string, value decimal.Decimal) {
	if value.IsNegative() {
		v.details = append(v.details, apierror.FieldError{Field: field, Message: "must not be negative"})
	}
}

func (v *validator) err() error {
	if len(v.details) == 0 {
		return nil
	}
	return apierror.ValidationError("", v.details...)
}
