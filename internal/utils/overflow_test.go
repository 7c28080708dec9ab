package utils

import (
	"testing"
)

func TestCheckAddOverflow(t *testing.T) {
	tests := []struct {
		name    string
		length  int64
		delta   int64
		want    int64
		wantErr bool
	}{
		{name: "small append", length: 5, delta: 10, want: 15, wantErr: false},
		{name: "negative length", length: -1, delta: 10, wantErr: true},
		{name: "negative delta", length: 5, delta: -1, wantErr: true},
		{name: "at max", length: MaxDocumentLength - 1, delta: 1, want: MaxDocumentLength, wantErr: false},
		{name: "exceeds max", length: MaxDocumentLength, delta: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckAddOverflow(tt.length, tt.delta)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckAddOverflow(%d, %d) error = %v, wantErr %v", tt.length, tt.delta, err, tt.wantErr)
				return
			}
			if err == nil && got != tt.want {
				t.Errorf("CheckAddOverflow(%d, %d) = %d, want %d", tt.length, tt.delta, got, tt.want)
			}
		})
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want int64
	}{
		{name: "below floor", n: 5, want: MinHeapCapacity},
		{name: "exactly floor", n: MinHeapCapacity, want: MinHeapCapacity},
		{name: "just above floor", n: MinHeapCapacity + 1, want: 128},
		{name: "power of two already", n: 256, want: 256},
		{name: "just above a power of two", n: 257, want: 512},
		{name: "capped at max", n: MaxDocumentLength, want: MaxDocumentLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextPow2(tt.n); got != tt.want {
				t.Errorf("NextPow2(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{name: "positive size", size: 128, wantErr: false},
		{name: "zero size", size: 0, wantErr: true},
		{name: "negative size", size: -1, wantErr: true},
		{name: "exceeds max", size: MaxDocumentLength + 1, wantErr: true},
		{name: "exactly max", size: MaxDocumentLength, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCapacity(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckCapacity(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}
