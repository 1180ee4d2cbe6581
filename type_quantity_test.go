package taxlot

import (
	"errors"
	"testing"
)

func TestQuantityRescale(t *testing.T) {
	tests := []struct {
		in      string
		scale   int32
		want    string
		wantErr bool
	}{
		{"1.5", 8, "1.5", false},
		{"0.12345678", 8, "0.12345678", false},
		{"0.123456789", 8, "", true},
		{"0.1234567800", 8, "0.12345678", false}, // trailing zeros are not precision
		{"10", 0, "10", false},
		{"10.5", 0, "", true},
	}
	for _, tc := range tests {
		got, err := Q(tc.in).Rescale("BTC", tc.scale)
		if tc.wantErr {
			var po *PrecisionOverflowError
			if !errors.As(err, &po) {
				t.Errorf("Rescale(%s, %d): got %v, want *PrecisionOverflowError", tc.in, tc.scale, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Rescale(%s, %d): %v", tc.in, tc.scale, err)
			continue
		}
		if !got.Equal(Q(tc.want)) {
			t.Errorf("Rescale(%s, %d) = %s, want %s", tc.in, tc.scale, got, tc.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	if q, err := ParseQuantity("0.00000001"); err != nil || !q.Equal(Q("0.00000001")) {
		t.Errorf("ParseQuantity = %v, %v", q, err)
	}
	if _, err := ParseQuantity("not a number"); err == nil {
		t.Error("want error for garbage input")
	}
}

func TestQuantityMin(t *testing.T) {
	if got := Q(3).Min(Q(5)); !got.Equal(Q(3)) {
		t.Errorf("Min(3, 5) = %s", got)
	}
	if got := Q(5).Min(Q(3)); !got.Equal(Q(3)) {
		t.Errorf("Min(5, 3) = %s", got)
	}
}
