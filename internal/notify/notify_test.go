package notify

import (
	"net"
	"testing"
)

func TestParseRegisterMessage(t *testing.T) {
	msg, err := parseRegisterMessage([]byte(`{"type":"register","user_id":"u1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != RegisterMessageType || msg.UserID != "u1" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestParseRegisterMessageRejectsIncomplete(t *testing.T) {
	cases := []string{
		`{"type":"register"}`,
		`{"user_id":"u1"}`,
		`not json`,
		``,
	}
	for _, c := range cases {
		if _, err := parseRegisterMessage([]byte(c)); err == nil {
			t.Errorf("parse(%q): expected error", c)
		}
	}
}

func TestRegistryRegisterRemoveSnapshot(t *testing.T) {
	r := NewRegistry()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	r.Register("u1", addr)
	r.Register("u2", addr)
	r.Register("", addr)   // ignored
	r.Register("u3", nil)  // ignored
	r.Register("u1", addr) // replaces, not duplicates

	if got := len(r.Snapshot()); got != 2 {
		t.Errorf("snapshot len = %d, want 2", got)
	}

	r.Remove("u1")
	snap := r.Snapshot()
	if len(snap) != 1 || snap[0].UserID != "u2" {
		t.Errorf("snapshot = %+v", snap)
	}
}
