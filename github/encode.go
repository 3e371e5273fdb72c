package github

import (
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

// SmartEncode url-encodes the `url`-tagged fields of opts.
// Nil pointers are left out, so optional parameters are pointers tagged omitempty.
func SmartEncode(opts interface{}) (string, error) {
	values, err := encodeValues(opts)
	if err != nil {
		return "", err
	}

	return values.Encode(), nil
}

func encodeValues(opts interface{}) (url.Values, error) {
	if opts == nil {
		return url.Values{}, nil
	}

	values, err := query.Values(opts)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't encode parameters")
	}

	return values, nil
}

// Int returns a pointer to v, for optional parameters
func Int(v int) *int { return &v }

// String returns a pointer to v, for optional parameters
func String(v string) *string { return &v }

// Bool returns a pointer to v, for optional parameters
func Bool(v bool) *bool { return &v }
