package recordid

import (
	"strings"
	"testing"
)

func TestNewPrefixesByKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		prefix string
	}{
		{KindIdentity, "idn_"},
		{KindPermission, "prm_"},
		{KindMemory, "mem_"},
		{KindAutomation, "aut_"},
		{KindPortfolio, "pfl_"},
		{KindEvent, "evt_"},
	}

	for _, tt := range tests {
		id := New(tt.kind)
		if !strings.HasPrefix(id, tt.prefix) {
			t.Errorf("New(%s) = %q, want prefix %q", tt.kind, id, tt.prefix)
		}
		if !IsValid(tt.kind, id) {
			t.Errorf("IsValid(%s, %q) = false, want true", tt.kind, id)
		}
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New(KindEvent)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestParse(t *testing.T) {
	id := New(KindIdentity)
	if _, err := Parse(id); err != nil {
		t.Fatalf("Parse(%q) returned error: %v", id, err)
	}

	if _, err := Parse("no-prefix"); err == nil {
		t.Error("Parse without prefix should fail")
	}
	if IsValid(KindIdentity, "prm_01h2xcejqtf2nbrexx3vqjhp41") {
		t.Error("IsValid must reject mismatched kind prefix")
	}
	if IsValid(KindIdentity, "idn_not-a-ulid") {
		t.Error("IsValid must reject malformed ulid")
	}
}
