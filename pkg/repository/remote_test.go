package repository

import (
	"testing"
	"time"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

func TestNewRemote(t *testing.T) {
	tests := []struct {
		url          string
		wantRelease  bool
		wantSnapshot bool
		wantPolicy   string
	}{
		{"https://repo1.maven.org/maven2", true, false, UpdateNever},
		{"https://repo.example.com/snapshots", false, true, UpdateAlways},
		{"https://repo.example.com/snapshots/", false, true, UpdateAlways},
		{"https://repo.example.com/libs-snapshots", false, true, UpdateAlways},
		{"https://repo.example.com/snapshots/releases", true, false, UpdateNever},
	}
	for _, tt := range tests {
		r := NewRemote("r", tt.url, "")
		if r.Release.Enabled != tt.wantRelease || r.Snapshot.Enabled != tt.wantSnapshot {
			t.Errorf("NewRemote(%s): release=%v snapshot=%v, want %v/%v",
				tt.url, r.Release.Enabled, r.Snapshot.Enabled, tt.wantRelease, tt.wantSnapshot)
		}
		if got := r.active().UpdatePolicy; got != tt.wantPolicy {
			t.Errorf("NewRemote(%s) policy = %s, want %s", tt.url, got, tt.wantPolicy)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("NewRemote(%s).Validate() = %v", tt.url, err)
		}
	}

	if r := NewRemote("r", "https://example.com/m2", "daily"); r.Release.UpdatePolicy != UpdateDaily {
		t.Errorf("update override ignored: %+v", r.Release)
	}
}

func TestRemote_Validate(t *testing.T) {
	tests := []struct {
		name   string
		remote Remote
	}{
		{"no id", Remote{URL: "https://x", Release: Policy{Enabled: true}}},
		{"no url", Remote{ID: "x", Release: Policy{Enabled: true}}},
		{"both enabled", Remote{ID: "x", URL: "https://x", Release: Policy{Enabled: true}, Snapshot: Policy{Enabled: true}}},
		{"neither enabled", Remote{ID: "x", URL: "https://x"}},
		{"snapshot policy on release url", Remote{ID: "x", URL: "https://x/m2", Snapshot: Policy{Enabled: true}}},
		{"release policy on snapshot url", Remote{ID: "x", URL: "https://x/snapshots", Release: Policy{Enabled: true}}},
		{"bad policy", NewRemote("x", "https://x/m2", "hourly")},
		{"bad interval", NewRemote("x", "https://x/m2", "interval:0")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.remote.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValidateAll_DuplicateID(t *testing.T) {
	err := ValidateAll([]Remote{
		NewRemote("central", "https://a/m2", ""),
		NewRemote("central", "https://b/m2", ""),
	})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ValidateAll() = %v, want INVALID_CONFIG", err)
	}
}

func TestPolicy_TTL(t *testing.T) {
	tests := []struct {
		policy string
		ttl    time.Duration
		ok     bool
	}{
		{UpdateAlways, 0, false},
		{UpdateNever, 0, true},
		{UpdateDaily, 24 * time.Hour, true},
		{"interval:15", 15 * time.Minute, true},
		{"interval:x", 0, false},
	}
	for _, tt := range tests {
		ttl, ok := Policy{Enabled: true, UpdatePolicy: tt.policy}.TTL()
		if ttl != tt.ttl || ok != tt.ok {
			t.Errorf("TTL(%s) = %v, %v; want %v, %v", tt.policy, ttl, ok, tt.ttl, tt.ok)
		}
	}
}
