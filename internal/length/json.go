package length

import (
	"encoding/json"
	"fmt"
)

type jsonLength struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// MarshalJSON encodes l as {"line": n, "column": n}.
func (l Length) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLength{Line: int(l.LineCount()), Column: int(l.ColumnCount())})
}

// UnmarshalJSON decodes {"line": n, "column": n}, rejecting values the
// encoding cannot hold.
func (l *Length) UnmarshalJSON(data []byte) error {
	var j jsonLength
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	v, err := Checked(j.Line, j.Column)
	if err != nil {
		return fmt.Errorf("decode length: %w", err)
	}
	*l = v
	return nil
}
