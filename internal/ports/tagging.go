package ports

import "fmt"

// TagCode is the per-port membership value sent as selType_N.
type TagCode int

const (
	Untagged  TagCode = 0
	Tagged    TagCode = 1
	NotMember TagCode = 2
)

func (c TagCode) String() string {
	switch c {
	case Untagged:
		return "untagged"
	case Tagged:
		return "tagged"
	case NotMember:
		return "not-member"
	default:
		return "unknown"
	}
}

// PortsToTagCodes assigns one code to each of ports 1..numPorts: Untagged if
// the port is in untagged, otherwise Tagged if it is in tagged, otherwise
// NotMember. Overlapping sets are rejected with a *ConflictError before any
// code is produced. The sets need not be sorted.
func PortsToTagCodes(numPorts int, tagged, untagged PortSet) ([]TagCode, error) {
	if numPorts < 0 {
		return nil, fmt.Errorf("invalid port count %d", numPorts)
	}
	tagged, untagged = NewPortSet(tagged...), NewPortSet(untagged...)
	if both := tagged.Intersect(untagged); both.Len() > 0 {
		return nil, &ConflictError{Ports: both}
	}

	codes := make([]TagCode, numPorts)
	for i := range codes {
		port := i + 1
		switch {
		case untagged.Contains(port):
			codes[i] = Untagged
		case tagged.Contains(port):
			codes[i] = Tagged
		default:
			codes[i] = NotMember
		}
	}
	return codes, nil
}
