package event

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/application"
	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/goccy/go-json"
)

type request struct {
	query map[string]string
	body  []byte
}

func newRequest(ev Event) request {
	req := request{query: ev.QueryStringParameters}
	if req.query == nil {
		req.query = map[string]string{}
	}
	if ev.Body != nil {
		req.body = []byte(*ev.Body)
	}
	return req
}

func (r request) str(name string) string {
	return strings.TrimSpace(r.query[name])
}

// optUint returns nil when the parameter is absent or empty.
func (r request) optUint(name string) (*uint, error) {
	raw := r.str(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domain.Invalid("%s must be a positive integer", name)
	}
	v := uint(n)
	return &v, nil
}

func (r request) requiredUint(name string) (uint, error) {
	v, err := r.optUint(name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, domain.Invalid("%s is required", name)
	}
	return *v, nil
}

func (r request) date(name string) (*domain.Date, error) {
	raw := r.str(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.Invalid("%s must be a YYYY-MM-DD date", name)
	}
	return &d, nil
}

// decode reads the JSON body into dst; a missing body decodes as {}.
func (r request) decode(dst any) error {
	body := bytes.TrimSpace(r.body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.Invalid("invalid JSON body")
	}
	return nil
}

func (r request) patch() (application.Patch, error) {
	return application.DecodePatch(r.body)
}
