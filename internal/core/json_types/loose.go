package json_types

import (
	"bytes"
	"encoding/json"
	"strings"
)

type LooseKind int

const (
	LooseNull LooseKind = iota
	LooseString
	LooseBool
	LooseNumber
	LooseOther
)

// Loose хранит значение поля, тип которого сервер присылает как придется:
// строкой, булевым значением, числом или null. Разбор никогда не возвращает ошибку.
type Loose struct {
	Kind LooseKind
	Str  string
	Bool bool
}

func (l *Loose) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = Loose{}

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			l.Kind = LooseOther
			return nil
		}
		l.Kind = LooseString
		l.Str = str
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			l.Kind = LooseOther
			return nil
		}
		l.Kind = LooseBool
		l.Bool = b
		l.Str = string(data)
	case '{', '[':
		l.Kind = LooseOther
	default:
		l.Kind = LooseNumber
		l.Str = string(data)
	}

	return nil
}

func (l Loose) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LooseString:
		return json.Marshal(l.Str)
	case LooseBool:
		return json.Marshal(l.Bool)
	case LooseNumber:
		return []byte(l.Str), nil
	default:
		return []byte("null"), nil
	}
}

func (l Loose) IsTrue() bool {
	return l.Kind == LooseBool && l.Bool
}

// EqualFold сравнивает строковое значение без учета регистра
func (l Loose) EqualFold(value string) bool {
	return l.Kind == LooseString && strings.EqualFold(l.Str, value)
}

func (l Loose) String() string {
	if l.Kind == LooseNull || l.Kind == LooseOther {
		return ""
	}
	return l.Str
}
