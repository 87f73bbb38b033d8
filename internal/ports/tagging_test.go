package ports

import (
	"errors"
	"reflect"
	"testing"
)

func TestPortsToTagCodes(t *testing.T) {
	got, err := PortsToTagCodes(8, PortSet{3}, PortSet{1, 2})
	if err != nil {
		t.Fatalf("PortsToTagCodes() error = %v", err)
	}
	want := []TagCode{Untagged, Untagged, Tagged, NotMember, NotMember, NotMember, NotMember, NotMember}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PortsToTagCodes() = %v, want %v", got, want)
	}
}

func TestPortsToTagCodes_Empty(t *testing.T) {
	got, err := PortsToTagCodes(5, nil, nil)
	if err != nil {
		t.Fatalf("PortsToTagCodes() error = %v", err)
	}
	for i, c := range got {
		if c != NotMember {
			t.Errorf("port %d = %v, want %v", i+1, c, NotMember)
		}
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestPortsToTagCodes_Unsorted(t *testing.T) {
	got, err := PortsToTagCodes(5, PortSet{4, 2}, PortSet{5, 1})
	if err != nil {
		t.Fatalf("PortsToTagCodes() error = %v", err)
	}
	want := []TagCode{Untagged, Tagged, NotMember, Tagged, Untagged}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PortsToTagCodes() = %v, want %v", got, want)
	}
}

func TestPortsToTagCodes_NegativeCount(t *testing.T) {
	codes, err := PortsToTagCodes(-1, PortSet{1}, nil)
	if err == nil {
		t.Fatal("PortsToTagCodes(-1) should fail")
	}
	if codes != nil {
		t.Errorf("PortsToTagCodes(-1) returned codes %v", codes)
	}
}

func TestPortsToTagCodes_Conflict(t *testing.T) {
	tests := []struct {
		name     string
		tagged   PortSet
		untagged PortSet
		want     PortSet
	}{
		{"single overlap", PortSet{3}, PortSet{3}, PortSet{3}},
		{"partial overlap", PortSet{1, 2, 3}, PortSet{3, 4, 2}, PortSet{2, 3}},
		{"unsorted untagged", PortSet{1}, PortSet{5, 1}, PortSet{1}},
		{"unsorted both", PortSet{7, 2, 4}, PortSet{4, 3, 7}, PortSet{4, 7}},
		// Overlap outside the switch's ports is still rejected.
		{"overlap past port count", PortSet{12}, PortSet{12}, PortSet{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, err := PortsToTagCodes(8, tt.tagged, tt.untagged)
			if codes != nil {
				t.Errorf("PortsToTagCodes() returned codes %v on conflict", codes)
			}
			if !errors.Is(err, ErrConflictingMembership) {
				t.Fatalf("PortsToTagCodes() error = %v, want ErrConflictingMembership", err)
			}
			var conflict *ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("error type = %T, want *ConflictError", err)
			}
			if !conflict.Ports.Equal(tt.want) {
				t.Errorf("ConflictError.Ports = %v, want %v", conflict.Ports, tt.want)
			}
		})
	}
}

func TestTagCode_Wire(t *testing.T) {
	if Untagged != 0 || Tagged != 1 || NotMember != 2 {
		t.Errorf("tag codes = %d/%d/%d, want 0/1/2", Untagged, Tagged, NotMember)
	}
}
