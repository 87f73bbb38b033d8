package decoder

import "fmt"

// Fields maps field names to decoded values. Values are bool, int, string,
// []int or []string depending on the field declaration.
type Fields map[string]any

func (f Fields) get(name string) (any, error) {
	v, ok := f[name]
	if !ok {
		return nil, fieldNotFound("", name)
	}
	return v, nil
}

func wrongType(name string, v any, want string) error {
	return malformed("", name, fmt.Sprintf("holds %T, want %s", v, want), nil)
}

// Bool returns a scalar bool field.
func (f Fields) Bool(name string) (bool, error) {
	v, err := f.get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(name, v, "bool")
	}
	return b, nil
}

// Int returns a scalar int field.
func (f Fields) Int(name string) (int, error) {
	v, err := f.get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, wrongType(name, v, "int")
	}
	return n, nil
}

// String returns a scalar string field.
func (f Fields) String(name string) (string, error) {
	v, err := f.get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(name, v, "string")
	}
	return s, nil
}

// Ints returns an integer list field.
func (f Fields) Ints(name string) ([]int, error) {
	v, err := f.get(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]int)
	if !ok {
		return nil, wrongType(name, v, "[]int")
	}
	return l, nil
}

// Strings returns a string list field.
func (f Fields) Strings(name string) ([]string, error) {
	v, err := f.get(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]string)
	if !ok {
		return nil, wrongType(name, v, "[]string")
	}
	return l, nil
}
