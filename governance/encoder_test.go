// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package governance

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	fuzz "github.com/google/gofuzz"
)

func TestSelector(t *testing.T) {
	tests := []struct {
		signature string
		want      string
	}{
		{"transfer(address,uint256)", "a9059cbb"},
		{"approve(address,uint256)", "095ea7b3"},
		{"balanceOf(address)", "70a08231"},
	}
	for _, tt := range tests {
		sel := Selector(tt.signature)
		if got := hex.EncodeToString(sel[:]); got != tt.want {
			t.Errorf("Selector(%q) = %s, want %s", tt.signature, got, tt.want)
		}
	}
}

func TestEncodeCalldata(t *testing.T) {
	params := []byte{0x01, 0x02, 0x03}
	full := []byte{0xde, 0xad, 0xbe, 0xef, 0x00}

	encoded, err := EncodeCalldata([]string{"transfer(address,uint256)", ""}, [][]byte{params, full})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(encoded))
	}

	sel := Selector("transfer(address,uint256)")
	want := append(sel[:], params...)
	if !bytes.Equal(encoded[0], want) {
		t.Errorf("expected selector-prefixed payload %x, got %x", want, encoded[0])
	}
	if !bytes.Equal(encoded[1], full) {
		t.Errorf("empty signature must keep raw bytes, got %x", encoded[1])
	}

	// Outputs must not alias the inputs
	encoded[1][0] = 0x00
	if full[0] != 0xde {
		t.Error("encoded payload aliases caller input")
	}
}

func TestEncodeCalldata_LengthMismatch(t *testing.T) {
	_, err := EncodeCalldata([]string{"a()", "b()"}, [][]byte{{}})
	if !errors.Is(err, ErrActionListLengthMismatch) {
		t.Fatalf("expected ErrActionListLengthMismatch, got %v", err)
	}
}

func TestEncodeCalldata_Empty(t *testing.T) {
	encoded, err := EncodeCalldata(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != 0 {
		t.Errorf("expected no payloads, got %d", len(encoded))
	}
}

func TestEncodeCalldata_Properties(t *testing.T) {
	f := fuzz.NewWithSeed(7).NilChance(0).NumElements(0, 8)
	for i := 0; i < 200; i++ {
		var (
			sigs   []string
			params [][]byte
		)
		f.Fuzz(&params)
		sigs = make([]string, len(params))
		for j := range sigs {
			var flip bool
			f.Fuzz(&flip)
			if flip {
				f.Fuzz(&sigs[j])
			}
		}
		encoded, err := EncodeCalldata(sigs, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		again, _ := EncodeCalldata(sigs, params)
		for j := range params {
			if !bytes.Equal(encoded[j], again[j]) {
				t.Fatalf("encoding is not deterministic at %d", j)
			}
			if !bytes.HasSuffix(encoded[j], params[j]) {
				t.Fatalf("payload %d does not end with its parameters", j)
			}
			wantLen := len(params[j])
			if sigs[j] != "" {
				wantLen += 4
			}
			if len(encoded[j]) != wantLen {
				t.Fatalf("payload %d has length %d, want %d", j, len(encoded[j]), wantLen)
			}
		}
	}
}
