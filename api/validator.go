package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// decodeAndValidate decodes a JSON request body into req and validates it
// against its struct tags. On failure the response has already been written
// and the handler should return.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Debug("Failed to decode request body")
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return err
	}

	if err := getValidator().Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  "invalid request",
			Fields: formatValidationError(err),
		})
		return err
	}
	return nil
}

// formatValidationError flattens validator errors into field -> message,
// without leaking internal struct names.
func formatValidationError(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["error"] = "invalid request format"
		return fields
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			fields[field] = "this field is required"
		case "uuid":
			fields[field] = "must be a valid UUID"
		case "min":
			fields[field] = fmt.Sprintf("must be at least %s", e.Param())
		case "max":
			fields[field] = fmt.Sprintf("must be at most %s", e.Param())
		case "gt":
			fields[field] = fmt.Sprintf("must be greater than %s", e.Param())
		case "gte":
			fields[field] = fmt.Sprintf("must be at least %s", e.Param())
		case "lte":
			fields[field] = fmt.Sprintf("must be at most %s", e.Param())
		default:
			fields[field] = "invalid value"
		}
	}
	return fields
}
