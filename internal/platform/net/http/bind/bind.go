// Package bind decodes request bodies into typed DTOs and runs validator tags over them
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "reqrelay/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// Validator pairs the shared validate instance with its english translator
type Validator struct {
	V     *validator.Validate
	Trans ut.Translator
}

var (
	vOnce sync.Once
	vInst *Validator

	// seam for trailing data detection
	moreInput = func(dec *json.Decoder) bool { return dec.More() }
)

// Shared returns the process wide validator, building it on first use
// Field names in messages come from json tags
func Shared() *Validator {
	vOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = entrans.RegisterDefaultTranslations(v, trans)
		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")

		vInst = &Validator{V: v, Trans: trans}
	})
	return vInst
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// short replaces the default translation for tag with a terse template
func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// JSONOptions tunes ParseJSON
type JSONOptions struct {
	MaxBytes        int64 // 0 means unlimited
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// DefaultJSON is strict: 1MB cap, unknown fields rejected, body required
var DefaultJSON = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}

// ParseJSON decodes one JSON document into T and validates it
// Decode failures are ErrorCodeJSON, except a wrongly typed field which is ErrorCodeValidation
// GET, HEAD, OPTIONS and DELETE requests without a body yield the zero value unvalidated
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := DefaultJSON
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() { _ = r.Body.Close() }()

	var body io.Reader = r.Body
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}
	if !o.AllowEmptyBody {
		first := make([]byte, 1)
		if n, _ := body.Read(first); n == 0 {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodDelete:
				return zero, nil
			}
			return zero, perr.JSONErrf("empty body")
		}
		body = io.MultiReader(bytes.NewReader(first), body)
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case o.AllowEmptyBody && errors.Is(err, io.EOF):
			return Validate(dst)
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return zero, perr.WithField(
				perr.Validationf("%s must be a %s", typeErr.Field, typeErr.Type), typeErr.Field)
		default:
			return zero, perr.JSONErrf("invalid JSON: %v", err)
		}
	}
	if moreInput(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	return Validate(dst)
}

// Validate runs validator tags over v; the first failing field becomes a validation error
func Validate[T any](v T) (T, error) {
	var zero T
	err := Shared().V.Struct(v)
	if err == nil {
		return v, nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return zero, perr.Wrap(err, perr.ErrorCodeJSON, "validation error")
	}
	field, msg := FirstFailure(err)
	return zero, perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// FirstFailure returns the field name and translated message of the first failed rule
func FirstFailure(err error) (field, msg string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Shared().Trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}
