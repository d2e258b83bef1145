package bind

import (
	"errors"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	perr "reqrelay/internal/platform/errors"

	"github.com/go-playground/form/v4"
)

// BodyOptions controls ParseBody
type BodyOptions struct {
	MaxBytes int64 // default 1MB, applies to JSON and form bodies alike
}

// Media types understood by ParseBody
const (
	MediaJSON      = "application/json"
	MediaForm      = "application/x-www-form-urlencoded"
	MediaMultipart = "multipart/form-data"
)

// ParseBody decodes a JSON, urlencoded or multipart body into T and validates it
// JSON bodies use json tags; form bodies use form tags. Unknown fields are ignored
// and an empty body decodes to the zero value before validation runs
func ParseBody[T any](r *http.Request, opts ...BodyOptions) (T, error) {
	var zero T
	o := BodyOptions{MaxBytes: 1 << 20}
	if len(opts) > 0 && opts[0].MaxBytes > 0 {
		o = opts[0]
	}

	switch MediaType(r) {
	case MediaForm, MediaMultipart:
		vals, err := parseForm(r, o.MaxBytes)
		if err != nil {
			return zero, err
		}
		var dst T
		if err := decodeForm(vals, &dst); err != nil {
			return zero, err
		}
		return Validate(dst)
	default:
		return ParseJSON[T](r, JSONOptions{MaxBytes: o.MaxBytes, AllowEmptyBody: true})
	}
}

// MediaType returns the lowercased media type of the request body, or "" when absent
func MediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

func parseForm(r *http.Request, maxBytes int64) (url.Values, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	var err error
	if MediaType(r) == MediaMultipart {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "invalid form body")
	}
	return r.PostForm, nil
}

// formDecoder reads form tags; the decoder caches struct metadata and is safe for concurrent use
var formDecoder = func() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("form")
	return d
}()

// decodeForm copies form values into dst, reporting the first bad field as a validation error
func decodeForm(vals url.Values, dst any) error {
	err := formDecoder.Decode(dst, vals)
	if err == nil {
		return nil
	}
	var derrs form.DecodeErrors
	if !errors.As(err, &derrs) {
		return perr.Wrap(err, perr.ErrorCodeValidation, "invalid form body")
	}
	name := slices.Sorted(maps.Keys(derrs))[0]
	return perr.WithField(perr.Wrap(derrs[name], perr.ErrorCodeValidation, name+" has an invalid value"), name)
}
