package connection

import "testing"

func TestHealthTracker(t *testing.T) {
	h := NewHealthTracker()

	if h.Status().Connected {
		t.Fatal("fresh tracker should be disconnected")
	}
	if h.Quality() != QualityDegraded {
		t.Errorf("disconnected quality = %s, want degraded", h.Quality())
	}

	h.SetStatus(true, "")
	st := h.Status()
	if !st.Connected || st.Error != "" {
		t.Errorf("Status() = %+v, want connected with no error", st)
	}
	if st.LastPing == 0 {
		t.Error("expected last ping to be stamped")
	}
	if h.Quality() != QualityExcellent {
		t.Errorf("connected quality = %s, want excellent", h.Quality())
	}

	h.SetDegraded(true)
	if !h.IsDegraded() {
		t.Error("expected degraded after SetDegraded(true)")
	}
	if h.Quality() != QualityDegraded {
		t.Errorf("degraded quality = %s, want degraded", h.Quality())
	}

	h.SetDegraded(false)
	h.SetStatus(false, "reconnecting")
	st = h.Status()
	if st.Connected || st.Error != "reconnecting" {
		t.Errorf("Status() = %+v, want disconnected with reason", st)
	}
}

func TestHealthTracker_UpdateLastPing(t *testing.T) {
	h := NewHealthTracker()
	h.SetStatus(true, "")
	before := h.Status()

	h.UpdateLastPing()
	after := h.Status()
	if after.LastPing < before.LastPing {
		t.Error("UpdateLastPing went backwards")
	}
	if !after.Connected {
		t.Error("UpdateLastPing must not change connection state")
	}
}
