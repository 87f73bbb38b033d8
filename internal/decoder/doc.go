// Package decoder extracts typed configuration values from the pages served by
// an Easy Smart switch web console.
//
// The switch has no API. Every management page embeds its state as an inline
// script variable, for example:
//
//	<script>
//	var qvlan_ds = {
//	state:1,
//	portNum:8,
//	vids:[1,5,20],
//	count:3,
//	maxVids:32,
//	names:['Default_VLAN','eng','voice'],
//	tagMbrs:[0x0,0x4,0x80],
//	untagMbrs:[0xff,0x3,0x0]
//	};
//	</script>
//
// The decoder does not parse HTML or JavaScript. Each response type has a
// registered schema (see Lookup) listing its fields in order together with a
// kind (scalar or list) and an element type. Values are found by anchoring on
// the literal "<field>:" text and scanning to the next delimiter: ',' for
// scalars and ']' for lists.
//
// # Classification
//
// Classify picks the first registered schema whose "var <name>" signature is
// present in the page and decodes it. Pages that carry several variables (the
// PoE page has both portConfig and globalConfig) are decoded with
// ClassifyMulti.
//
// # Integer lists
//
// Port membership masks are sometimes written in hexadecimal. If the list text
// contains the letter 'x' anywhere, every element of that list is parsed in
// base 16; otherwise base 10 is used. This mirrors what the firmware emits but
// it is fragile: an 'x' appearing for another reason inside the brackets would
// switch the whole list to base 16.
//
// # Scalars
//
// A scalar is the text between the field's colon and the next comma, with
// surrounding whitespace removed before it is interpreted. A boolean is true
// only when that trimmed text is exactly "1", so "state: 1," and "state:1,"
// both decode as true. Firmware pages have been seen to pad values, and
// trimming keeps booleans consistent with integers, which are trimmed too.
//
// # Errors
//
// All failures are *DecodeError values wrapping one of ErrSchemaNotFound,
// ErrFieldNotFound, ErrMalformedField or ErrUnrecognizedResponse. They are
// fatal: a missing anchor means the firmware changed its output format, and
// nothing in this package retries.
//
// All functions are pure and safe for concurrent use.
package decoder
