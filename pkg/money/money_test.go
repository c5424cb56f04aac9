package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountMarshalsTwoPlaces(t *testing.T) {
	cases := map[string]string{
		"15":      `"15.00"`,
		"0":       `"0.00"`,
		"28.75":   `"28.75"`,
		"3.755":   `"3.76"`,
		"-4.5":    `"-4.50"`,
		"1200.51": `"1200.51"`,
	}
	for in, want := range cases {
		got, err := json.Marshal(New(decimal.RequireFromString(in)))
		if err != nil {
			t.Fatalf("marshal %s: %v", in, err)
		}
		if string(got) != want {
			t.Fatalf("marshal %s = %s, want %s", in, got, want)
		}
	}
}

func TestAmountInsideStructAndPointer(t *testing.T) {
	total := decimal.RequireFromString("5")
	payload := struct {
		Total    Amount  `json:"total"`
		Optional *Amount `json:"optional,omitempty"`
	}{Total: New(total), Optional: Ptr(&total)}

	got, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"total":"5.00","optional":"5.00"}` {
		t.Fatalf("unexpected payload %s", got)
	}
	if Ptr(nil) != nil {
		t.Fatal("Ptr(nil) should stay nil")
	}
}

func TestAmountDecodesNumbersAndStrings(t *testing.T) {
	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"15.00","b":2.5}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.A.Equal(decimal.RequireFromString("15")) || !payload.B.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected decode %s %s", payload.A, payload.B)
	}
}
