package json_types

import (
	"encoding/json"
	"strings"
)

// ID непрозрачный идентификатор, сервер присылает его то числом, то строкой
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var loose Loose
	if err := loose.UnmarshalJSON(data); err != nil {
		return err
	}

	switch loose.Kind {
	case LooseString, LooseNumber:
		*id = ID(strings.TrimSpace(loose.Str))
	default:
		*id = ""
	}

	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsEmpty() bool {
	return id == ""
}
