// Package ports translates between the switch's port encodings and sets of
// 1-based port numbers.
//
// The Easy Smart firmware uses three encodings:
//
//   - membership bitmasks, where bit i-1 is port i (tagMbrs, untagMbrs, pbm)
//   - per-port value lists, where index i-1 holds the value for port i (pvids)
//   - per-port tag codes sent as selType_N parameters when writing a VLAN
//
// All functions are pure.
package ports
