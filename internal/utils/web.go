package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/charitymap/charitymap/internal/errors"
	"github.com/charitymap/charitymap/internal/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report missing fields by their json name, not the Go struct field.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// WriteErrorAndStatusCode writes err as a JSON body {"error": message}.
// Clients always get the same envelope regardless of which layer failed.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		WriteJSON(w, e.StatusCode, map[string]string{"error": e.Message})
		return
	}
	// anything unexpected is a 500 with no internal detail leaked
	logger.Log.Error("unexpected error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// DecodeValidate decodes a JSON body into dst and checks its validate tags.
// Validation failures name the offending fields so clients get a usable
// 400 instead of a runtime fault.
func DecodeValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.BadRequest("No data received")
		}
		return errors.BadRequest("Body is invalid json")
	}
	if err := validate.Struct(dst); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.BadRequest("Required fields missing")
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return errors.BadRequest("Invalid or missing fields: " + strings.Join(fields, ", "))
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
