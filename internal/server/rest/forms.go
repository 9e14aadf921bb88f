package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/server/ingredientlist"
	"github.com/dmitrijs2005/foodrecipe/internal/server/services"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// multipartMemory is how much of a multipart form is kept in memory; larger
// files spill to temporary files.
const multipartMemory = 8 << 20

// errTooLarge is reported as 413.
var errTooLarge = errors.New("request body too large")

// recipeForm holds the parsed recipe form. Close releases the uploaded
// files.
type recipeForm struct {
	input   services.RecipeInput
	values  map[string][]string
	closers []io.Closer
	form    *multipart.Form
}

func (f *recipeForm) Close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
	if f.form != nil {
		_ = f.form.RemoveAll()
	}
}

func (f *recipeForm) value(key string) (string, bool) {
	v, ok := f.values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// parseRecipeForm reads the fields shared by create and update. Both
// multipart and urlencoded bodies are accepted; pictures need multipart.
func (h *Handler) parseRecipeForm(w http.ResponseWriter, r *http.Request) (*recipeForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		// mime/multipart does not always wrap the reader error
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, errTooLarge
		}
		return nil, &common.ValidationError{Reason: "malformed form body"}
	}

	f := &recipeForm{values: r.Form, form: r.MultipartForm}

	name, _ := f.value("name")
	instructions, _ := f.value("instructions")
	f.input.Name = name
	f.input.Instructions = instructions

	if raw, ok := f.value("category"); ok && strings.TrimSpace(raw) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			f.Close()
			return nil, &common.ValidationError{Field: "category", Reason: "must be an integer id"}
		}
		f.input.CategoryID = id
	}

	if raw, ok := f.value("needs_auth"); ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			f.Close()
			return nil, &common.ValidationError{Field: "needs_auth", Reason: "must be true or false"}
		}
		f.input.NeedsAuth = &v
	}

	raw, _ := f.value("ingredients")
	items, err := ingredientlist.Parse(raw)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.input.Ingredients = items

	if f.form != nil {
		for _, fh := range f.form.File["pictures"] {
			if fh.Filename == "" {
				continue
			}
			file, err := fh.Open()
			if err != nil {
				f.Close()
				return nil, &common.ValidationError{Field: "pictures", Reason: "cannot read upload"}
			}
			f.closers = append(f.closers, file)
			f.input.Pictures = append(f.input.Pictures, file)
		}
	}

	return f, nil
}

// parseKeepList parses pics_to_remain: a JSON array of picture ids or a
// comma separated list. Blank input keeps nothing.
func parseKeepList(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil, &common.ValidationError{Field: "pics_to_remain", Reason: "must be a JSON array of picture ids"}
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, &common.ValidationError{Field: "pics_to_remain", Reason: strconv.Quote(p) + " is not a picture id"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
