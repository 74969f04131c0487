package config

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// StringSlice accepts either a single string or a list of strings
type StringSlice []string

func (s *StringSlice) decode(a interface{}) error {
	switch d := a.(type) {
	case nil:
		return nil

	case string:
		if d != "" {
			*s = append(*s, d)
		}

	case []interface{}:
		for _, de := range d {
			if err := s.decode(de); err != nil {
				return err
			}
		}

	default:
		return errors.Errorf("unexpected type %T for string list: %+v", d, d)
	}

	return nil
}

func (s *StringSlice) UnmarshalJSON(b []byte) error {
	var a interface{}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	*s = nil
	return s.decode(a)
}
