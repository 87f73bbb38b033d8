package decoder

import (
	"bytes"
	"fmt"
	"strconv"
)

// Decode extracts every field declared for responseType from raw.
//
// Fields are processed in declaration order and each anchor is searched from
// the start of raw, so when a field name occurs more than once the first
// occurrence wins.
func Decode(raw []byte, responseType string) (Fields, error) {
	schema, ok := Lookup(responseType)
	if !ok {
		return nil, &DecodeError{Schema: responseType, Kind: ErrSchemaNotFound}
	}

	fields := make(Fields, len(schema.Fields))
	for _, decl := range schema.Fields {
		value, err := decodeField(raw, schema.Name, decl)
		if err != nil {
			return nil, err
		}
		fields[decl.Name] = value
	}
	return fields, nil
}

func decodeField(raw []byte, schema string, decl FieldDecl) (any, error) {
	anchor := []byte(decl.Name + ":")
	loc := bytes.Index(raw, anchor)
	if loc < 0 {
		return nil, fieldNotFound(schema, decl.Name)
	}
	rest := raw[loc+len(anchor):]

	switch decl.Kind {
	case KindList:
		end := bytes.IndexByte(rest, ']')
		if end < 0 {
			return nil, malformed(schema, decl.Name, "unterminated list", nil)
		}
		body := bytes.TrimSpace(rest[:end])
		if !bytes.HasPrefix(body, []byte("[")) {
			return nil, malformed(schema, decl.Name, "list does not start with '['", nil)
		}
		body = bytes.TrimSpace(body[1:])
		return decodeList(body, schema, decl)

	case KindScalar:
		end := bytes.IndexByte(rest, ',')
		if end <= 0 {
			return nil, malformed(schema, decl.Name, "missing scalar value", nil)
		}
		return decodeScalar(bytes.TrimSpace(rest[:end]), schema, decl)
	}

	return nil, malformed(schema, decl.Name, fmt.Sprintf("unsupported kind %s", decl.Kind), nil)
}

func decodeScalar(text []byte, schema string, decl FieldDecl) (any, error) {
	switch decl.Type {
	case TypeBool:
		// Only the literal 1 is true once padding is trimmed; the firmware
		// never writes "true".
		return string(text) == "1", nil
	case TypeInt:
		n, err := strconv.Atoi(string(text))
		if err != nil {
			return nil, malformed(schema, decl.Name, "invalid integer", err)
		}
		return n, nil
	case TypeString:
		return string(text), nil
	}
	return nil, malformed(schema, decl.Name, fmt.Sprintf("unsupported scalar type %s", decl.Type), nil)
}

func decodeList(body []byte, schema string, decl FieldDecl) (any, error) {
	switch decl.Type {
	case TypeInt:
		if len(body) == 0 {
			return []int{}, nil
		}
		base := 10
		if bytes.IndexByte(body, 'x') >= 0 {
			base = 16
		}
		parts := bytes.Split(body, []byte(","))
		values := make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := parseInt(bytes.TrimSpace(part), base)
			if err != nil {
				return nil, malformed(schema, decl.Name, fmt.Sprintf("invalid base-%d element %q", base, part), err)
			}
			values = append(values, n)
		}
		return values, nil

	case TypeString:
		if len(body) == 0 {
			return []string{}, nil
		}
		parts := bytes.Split(body, []byte(","))
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			part = bytes.ReplaceAll(part, []byte("'"), nil)
			part = bytes.ReplaceAll(part, []byte(`"`), nil)
			values = append(values, string(part))
		}
		return values, nil
	}
	return nil, malformed(schema, decl.Name, fmt.Sprintf("unsupported list element type %s", decl.Type), nil)
}

func parseInt(text []byte, base int) (int, error) {
	s := string(text)
	if base == 16 && len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	n, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
