package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// maxJSONBody bounds JSON request bodies; multipart uploads have their own
// limit from the config.
const maxJSONBody = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names so messages match the request fields
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateStruct runs the validator and converts the first failure into a
// common.ValidationError.
func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &common.ValidationError{Field: fe.Field(), Reason: reason(fe)}
	}
	return &common.ValidationError{Reason: err.Error()}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return &common.ValidationError{Reason: "cannot read request body"}
	}
	if len(body) == 0 {
		return &common.ValidationError{Reason: "request body is empty"}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &common.ValidationError{Reason: "malformed JSON body"}
	}
	return validateStruct(dst)
}

// pathID parses the {id} URL parameter. Malformed ids are reported as not
// found, like an id that does not exist.
func pathID(r *http.Request, entity string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &common.NotFoundError{Entity: entity, ID: raw}
	}
	return id, nil
}

func pathUUID(r *http.Request, entity string) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &common.NotFoundError{Entity: entity, ID: raw}
	}
	return id, nil
}
