package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

const maxBodyBytes = 1 << 20

// FieldError is one entry of an {"errors":[...]} response.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type errorsResponse struct {
	Errors []FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, errs ...FieldError) {
	writeJSON(w, http.StatusBadRequest, errorsResponse{Errors: errs})
}

func writeServerError(w http.ResponseWriter) {
	http.Error(w, "Server Error", http.StatusInternalServerError)
}

// decodeBody reads a JSON body into v. An empty body leaves v zeroed so that
// field validation reports what is missing.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// fieldErrors flattens ozzo-validation errors in the given field order.
// ok is false when err is not a validation failure.
func fieldErrors(err error, order ...string) ([]FieldError, bool) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, false
	}
	out := make([]FieldError, 0, len(errs))
	for _, field := range order {
		if e, found := errs[field]; found && e != nil {
			out = append(out, FieldError{Msg: e.Error(), Param: field})
		}
	}
	return out, true
}
