package llm

import (
	"context"
	"testing"
)

func TestStatusUpdate(t *testing.T) {
	var st Status
	fake := &fakeBackend{}

	if !st.Update(context.Background(), fake) {
		t.Fatal("Update = false for healthy backend")
	}
	snap := st.Load()
	if !snap.Available || snap.Err != "" {
		t.Errorf("snapshot = %+v, want available with no error", snap)
	}
	if snap.CheckedAt.IsZero() {
		t.Error("CheckedAt not recorded")
	}

	fake.probeErr = &UnavailableError{Backend: "fake", Reason: "connection refused"}
	if st.Update(context.Background(), fake) {
		t.Fatal("Update = true for failing backend")
	}
	snap = st.Load()
	if snap.Available {
		t.Error("snapshot still available after failed probe")
	}
	if snap.Err == "" {
		t.Error("probe error not recorded")
	}
	if fake.probeCalls != 2 {
		t.Errorf("probeCalls = %d, want 2", fake.probeCalls)
	}
}

func TestStatusMarkUnavailable(t *testing.T) {
	var st Status
	st.Update(context.Background(), &fakeBackend{})

	st.MarkUnavailable("not configured")
	snap := st.Load()
	if snap.Available {
		t.Error("snapshot available after MarkUnavailable")
	}
	if snap.Err != "not configured" {
		t.Errorf("Err = %q", snap.Err)
	}
}

func TestStatusZeroValue(t *testing.T) {
	var st Status
	snap := st.Load()
	if snap.Available {
		t.Error("zero-value status reports available")
	}
	if !snap.CheckedAt.IsZero() {
		t.Error("zero-value status has a check timestamp")
	}
}
