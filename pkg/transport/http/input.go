package http

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/schema"
)

// maxBodySize caps request bodies at 1 MB. The API carries form-sized
// payloads; anything larger is rejected as invalid input.
const maxBodySize = 1 << 20

// decodeInput assembles the raw validation input from the request: the
// JSON body (when present), the named path parameters, and the first value
// of each query parameter. A syntactically invalid body is a validation
// failure, reported the same way as any field violation.
func decodeInput(r *http.Request, paramNames ...string) (schema.Input, *api.Error) {
	in := schema.Input{}

	body, err := decodeBody(r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		in[schema.Body] = body
	}

	if len(paramNames) > 0 {
		params := map[string]any{}
		for _, name := range paramNames {
			if v := r.PathValue(name); v != "" {
				params[name] = v
			}
		}
		in[schema.Params] = params
	}

	if q := r.URL.Query(); len(q) > 0 {
		query := map[string]any{}
		for name, vals := range q {
			if len(vals) > 0 {
				query[name] = vals[0]
			}
		}
		in[schema.Query] = query
	}

	return in, nil
}

// decodeBody parses the JSON request body into a field map. An absent or
// empty body yields nil, which validates as "all body fields absent".
func decodeBody(r *http.Request) (map[string]any, *api.Error) {
	if r.Body == nil {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, api.NewValidationError([]api.FieldError{
			{Field: "body", Message: "body could not be read"},
		})
	}
	if len(data) == 0 {
		return nil, nil
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, api.NewValidationError([]api.FieldError{
			{Field: "body", Message: "body must be a JSON object"},
		})
	}
	return body, nil
}

// validate runs the endpoint schema and converts violations to the
// API validation error.
func validate(set schema.Set, in schema.Input) (schema.Values, *api.Error) {
	values, fieldErrs := schema.Validate(set, in)
	if len(fieldErrs) > 0 {
		return nil, api.NewValidationError(fieldErrs)
	}
	return values, nil
}

// clientAddr extracts the client host from the request for rate limiting.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
