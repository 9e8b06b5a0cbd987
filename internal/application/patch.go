package application

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ErrNoFields is returned when an update body names no recognized column.
var ErrNoFields = errors.New("No fields to update")

// Patch is a decoded PUT body. Keys are kept raw so presence can be told apart from null.
type Patch map[string]json.RawMessage

func DecodePatch(body []byte) (Patch, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Patch{}, nil
	}
	var p Patch
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, domain.Invalid("invalid JSON body")
	}
	if p == nil {
		p = Patch{}
	}
	return p, nil
}

// ID returns the required numeric id of the row to update.
func (p Patch) ID() (uint, error) {
	raw, ok := p["id"]
	if !ok || isNull(raw) {
		return 0, domain.Invalid("id is required")
	}
	var id uint
	if err := json.Unmarshal(raw, &id); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, domain.Invalid("id must be a positive integer")
		}
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, domain.Invalid("id must be a positive integer")
		}
		id = uint(n)
	}
	if id == 0 {
		return 0, domain.Invalid("id must be a positive integer")
	}
	return id, nil
}

type fieldKind int

const (
	textField fieldKind = iota
	requiredTextField
	intField
	countField
	moneyField
	boolField
	dateField
	jsonArrayField
)

type patchField struct {
	name string
	kind fieldKind
}

var (
	userPatchFields = []patchField{
		{"full_name", textField},
		{"bio", textField},
		{"avatar_url", textField},
		{"role", requiredTextField},
		{"paypal_email", textField},
		{"bank_account", textField},
		{"telegram_id", textField},
		{"telegram_notifications", boolField},
		{"email_notifications", boolField},
		{"push_notifications", boolField},
	}
	trackPatchFields = []patchField{
		{"title", requiredTextField},
		{"artist", requiredTextField},
		{"genre", textField},
		{"bpm", intField},
		{"key", textField},
		{"mood", textField},
		{"status", requiredTextField},
		{"rejection_reason", textField},
		{"streams", countField},
		{"revenue", moneyField},
	}
	labelPatchFields = []patchField{
		{"name", requiredTextField},
		{"description", textField},
		{"logo_url", textField},
		{"website", textField},
	}
	releasePatchFields = []patchField{
		{"release_date", dateField},
		{"platforms", jsonArrayField},
		{"promotional_plan", textField},
		{"status", requiredTextField},
	}
)

// changes walks the allow-list and decodes every present field to its column type.
func (p Patch) changes(fields []patchField) (domain.Changes, error) {
	out := domain.Changes{}
	for _, f := range fields {
		raw, ok := p[f.name]
		if !ok {
			continue
		}
		v, err := decodeField(f, raw)
		if err != nil {
			return nil, err
		}
		out[f.name] = v
	}
	if len(out) == 0 {
		return nil, ErrNoFields
	}
	return out, nil
}

// target resolves the row id and the changes; fields are checked first so a body
// without recognized fields reports ErrNoFields even when id is missing.
func (p Patch) target(fields []patchField) (uint, domain.Changes, error) {
	changes, err := p.changes(fields)
	if err != nil {
		return 0, nil, err
	}
	id, err := p.ID()
	if err != nil {
		return 0, nil, err
	}
	return id, changes, nil
}

func decodeField(f patchField, raw json.RawMessage) (any, error) {
	null := isNull(raw)
	switch f.kind {
	case textField:
		if null {
			return (*string)(nil), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, domain.Invalid("%s must be a string", f.name)
		}
		return &s, nil
	case requiredTextField:
		var s string
		if null || json.Unmarshal(raw, &s) != nil || s == "" {
			return nil, domain.Invalid("%s must be a non-empty string", f.name)
		}
		return s, nil
	case intField:
		if null {
			return (*int)(nil), nil
		}
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, domain.Invalid("%s must be an integer", f.name)
		}
		return &n, nil
	case countField:
		var n int64
		if null || json.Unmarshal(raw, &n) != nil || n < 0 {
			return nil, domain.Invalid("%s must be a non-negative integer", f.name)
		}
		return n, nil
	case moneyField:
		var d decimal.Decimal
		if null || d.UnmarshalJSON(raw) != nil {
			return nil, domain.Invalid("%s must be a number", f.name)
		}
		return d, nil
	case boolField:
		var b bool
		if null || json.Unmarshal(raw, &b) != nil {
			return nil, domain.Invalid("%s must be a boolean", f.name)
		}
		return b, nil
	case dateField:
		var s string
		if null || json.Unmarshal(raw, &s) != nil {
			return nil, domain.Invalid("%s must be a YYYY-MM-DD date", f.name)
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, domain.Invalid("%s must be a YYYY-MM-DD date", f.name)
		}
		return d, nil
	case jsonArrayField:
		arr, err := jsonArray(f.name, raw)
		if err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unhandled field kind %d for %s", f.kind, f.name)
	}
}

// jsonArray normalizes a JSON array (or null, meaning empty) for storage.
func jsonArray(name string, raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || isNull(raw) {
		return datatypes.JSON("[]"), nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, domain.Invalid("%s must be a JSON array", name)
	}
	if items == nil {
		return datatypes.JSON("[]"), nil
	}
	return datatypes.JSON(bytes.TrimSpace(raw)), nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
