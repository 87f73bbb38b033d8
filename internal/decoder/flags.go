package decoder

import "bytes"

var (
	ledOff = []byte("var led = 0")
	ledOn  = []byte("var led = 1")
)

// DecodeLED reads the port LED switch from the LED settings page.
func DecodeLED(raw []byte) (bool, error) {
	switch {
	case bytes.Contains(raw, ledOff):
		return false, nil
	case bytes.Contains(raw, ledOn):
		return true, nil
	}
	return false, &DecodeError{Field: "led", Kind: ErrUnrecognizedResponse, Detail: "expected 'var led = 0' or 'var led = 1'"}
}

// DecodeQVlanEnabled reads the 802.1Q VLAN mode switch from the VLAN table
// page. Unlike the generic bool decoding, the value must be exactly 0 or 1.
func DecodeQVlanEnabled(raw []byte) (bool, error) {
	if !bytes.Contains(raw, Signature(SchemaQVlan)) {
		return false, &DecodeError{Schema: SchemaQVlan, Kind: ErrUnrecognizedResponse, Detail: "page does not carry the VLAN table"}
	}

	value, err := decodeField(raw, SchemaQVlan, FieldDecl{Name: "state", Kind: KindScalar, Type: TypeString})
	if err != nil {
		return false, err
	}
	switch value.(string) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, &DecodeError{Schema: SchemaQVlan, Field: "state", Kind: ErrUnrecognizedResponse, Detail: "expected 0 or 1"}
}
