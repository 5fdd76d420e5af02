package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_IndependentRegistries(t *testing.T) {
	first := New()
	second := New()

	first.Expenses.Inc()
	first.SinkErrors.WithLabelValues("journal").Inc()

	if got := testutil.ToFloat64(first.Expenses); got != 1 {
		t.Errorf("first expenses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(second.Expenses); got != 0 {
		t.Errorf("second expenses = %v, want 0", got)
	}
	if got := testutil.ToFloat64(first.SinkErrors.WithLabelValues("journal")); got != 1 {
		t.Errorf("journal sink errors = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Transfers.Add(2)
	m.RPCs.WithLabelValues("/splitledger.v1.LedgerService/SettleDebts", "ok").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)

	for _, want := range []string{
		"splitledger_settlement_transfers_total 2",
		`splitledger_rpc_requests_total{code="ok",procedure="/splitledger.v1.LedgerService/SettleDebts"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
