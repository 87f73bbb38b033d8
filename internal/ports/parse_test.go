package ports

import (
	"errors"
	"testing"
)

func TestParsePortList(t *testing.T) {
	tests := []struct {
		input   string
		want    PortSet
		wantErr bool
	}{
		{"", PortSet{}, false},
		{"none", PortSet{}, false},
		{"3", PortSet{3}, false},
		{"1-3,5", PortSet{1, 2, 3, 5}, false},
		{" 5, 1-2 ,2 ", PortSet{1, 2, 5}, false},
		{"1,,2", PortSet{1, 2}, false},
		{"0", nil, true},
		{"3-1", nil, true},
		{"a", nil, true},
		{"1-", nil, true},
		{"-2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePortList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePortList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParsePortList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePortList_RoundTrip(t *testing.T) {
	set := PortSet{1, 2, 3, 5, 7, 8}
	got, err := ParsePortList(set.String())
	if err != nil {
		t.Fatalf("ParsePortList() error = %v", err)
	}
	if !got.Equal(set) {
		t.Errorf("ParsePortList(%q) = %v, want %v", set.String(), got, set)
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(PortSet{1, 8}, 8); err != nil {
		t.Errorf("ValidateRange() error = %v", err)
	}

	err := ValidateRange(PortSet{1, 9, 10}, 8)
	if !errors.Is(err, ErrPortOutOfRange) {
		t.Fatalf("ValidateRange() error = %v, want ErrPortOutOfRange", err)
	}
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("error type = %T, want *RangeError", err)
	}
	if !rangeErr.Ports.Equal(PortSet{9, 10}) {
		t.Errorf("RangeError.Ports = %v, want 9-10", rangeErr.Ports)
	}
}
