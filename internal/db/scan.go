package db

import (
	"encoding/json"

	dberrors "github.com/smplat/fulfillment/internal/errors"
)

// marshalJSON is the jsonb-column write helper every repository method
// uses for struct-valued columns (payload, metadata, selected_options).
// nil inputs marshal to a literal SQL NULL.
func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, dberrors.Wrap(err, "marshal jsonb column")
	}
	return b, nil
}

// unmarshalJSON is the read-side counterpart; a nil/empty column leaves
// dst untouched (its zero value).
func unmarshalJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return dberrors.Wrap(err, "unmarshal jsonb column")
	}
	return nil
}
