package ports

// MaxPorts is the largest port number a uint64 mask can carry.
const MaxPorts = 64

// MaskToPorts returns the ports whose bit is set in mask. Port i is bit i-1;
// bits at or above portCount are ignored.
func MaskToPorts(mask uint64, portCount int) PortSet {
	if portCount > MaxPorts {
		portCount = MaxPorts
	}
	out := PortSet{}
	for i := 1; i <= portCount; i++ {
		if mask&(1<<(i-1)) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// ListToPorts returns port index+1 for every index where values holds match.
// The PVID table is read this way: values[i] is the primary VLAN of port i+1.
func ListToPorts(values []int, match int) PortSet {
	out := PortSet{}
	for i, v := range values {
		if v == match {
			out = append(out, i+1)
		}
	}
	return out
}

// Bitmask encodes ports as the sum of 2^(port-1). Ports outside 1..MaxPorts
// contribute nothing.
func Bitmask(ports PortSet) uint64 {
	var mask uint64
	for _, p := range ports {
		if p >= 1 && p <= MaxPorts {
			mask |= 1 << (p - 1)
		}
	}
	return mask
}

// PortsToPvidBitmask builds the pbm parameter of a PVID write. It uses the
// same bit-to-port mapping as MaskToPorts.
func PortsToPvidBitmask(ports PortSet) uint64 {
	return Bitmask(ports)
}
