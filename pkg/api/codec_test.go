package api

import (
	"testing"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	if codec.Name() != "json" {
		t.Errorf("Name() = %q, want json", codec.Name())
	}

	body, err := codec.Marshal(&AddExpenseRequest{
		Group:  "Trip",
		PaidBy: "A",
		Total:  600,
		Shares: []Share{{User: "C", Amount: 400}},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"group":"Trip","paid_by":"A","total":600,"shares":[{"user":"C","amount":400}]}`
	if string(body) != want {
		t.Errorf("Marshal = %s, want %s", body, want)
	}

	var req GetLogRequest
	if err := codec.Unmarshal(nil, &req); err != nil || req.Group != "" {
		t.Errorf("empty body: %+v, %v", req, err)
	}
	if err := codec.Unmarshal([]byte(`{"group":`), &req); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
