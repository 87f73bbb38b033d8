package decoder

import "bytes"

// Signature returns the text that marks a page as carrying the named schema.
func Signature(schema string) []byte {
	return []byte("var " + schema)
}

// Classify decodes raw with the first registered schema whose signature is
// present and reports which schema that was. A page matching no schema yields
// ErrUnrecognizedResponse.
func Classify(raw []byte) (Fields, string, error) {
	for _, s := range registry {
		if bytes.Contains(raw, Signature(s.Name)) {
			fields, err := Decode(raw, s.Name)
			if err != nil {
				return nil, s.Name, err
			}
			return fields, s.Name, nil
		}
	}
	return nil, "", &DecodeError{Kind: ErrUnrecognizedResponse, Detail: "no known script variable"}
}

// ClassifyMulti decodes raw with each schema in turn and merges the results.
// Fields from later schemas are added after earlier ones; the schemas are
// expected not to share field names.
func ClassifyMulti(raw []byte, schemas []string) (Fields, error) {
	merged := make(Fields)
	for _, name := range schemas {
		fields, err := Decode(raw, name)
		if err != nil {
			return nil, err
		}
		for k, v := range fields {
			merged[k] = v
		}
	}
	return merged, nil
}
