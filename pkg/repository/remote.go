package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Update policies control how long metadata fetched from a remote stays fresh.
const (
	UpdateAlways = "always"
	UpdateDaily  = "daily"
	UpdateNever  = "never"

	intervalPrefix = "interval:"
)

// Policy says whether a remote serves one kind of version, and how often
// its metadata is re-checked.
type Policy struct {
	Enabled      bool
	UpdatePolicy string
}

// TTL returns how long metadata may be cached. ok is false when the policy
// requires a fresh check every time. A zero ttl with ok means no expiry.
func (p Policy) TTL() (ttl time.Duration, ok bool) {
	switch p.UpdatePolicy {
	case UpdateAlways:
		return 0, false
	case UpdateNever, "":
		return 0, true
	case UpdateDaily:
		return 24 * time.Hour, true
	}
	if n, err := parseInterval(p.UpdatePolicy); err == nil {
		return time.Duration(n) * time.Minute, true
	}
	return 0, false
}

func parseInterval(s string) (int, error) {
	if !strings.HasPrefix(s, intervalPrefix) {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown update policy %q", s)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, intervalPrefix))
	if err != nil || n <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid update interval %q", s)
	}
	return n, nil
}

func validPolicy(s string) bool {
	switch s {
	case UpdateAlways, UpdateDaily, UpdateNever:
		return true
	}
	_, err := parseInterval(s)
	return err == nil
}

// Remote is a repository reachable over a [Transport].
type Remote struct {
	ID       string
	URL      string
	Release  Policy
	Snapshot Policy
}

// NewRemote builds a remote whose release/snapshot split follows its URL.
// A URL whose last path element is "snapshots" serves only snapshots and is
// always re-checked; any other URL serves only releases. A non-empty update
// overrides the enabled side's default policy.
func NewRemote(id, url, update string) Remote {
	url = strings.TrimRight(url, "/")
	r := Remote{ID: id, URL: url}
	if IsSnapshotURL(url) {
		r.Snapshot = Policy{Enabled: true, UpdatePolicy: UpdateAlways}
		if update != "" {
			r.Snapshot.UpdatePolicy = update
		}
	} else {
		r.Release = Policy{Enabled: true, UpdatePolicy: UpdateNever}
		if update != "" {
			r.Release.UpdatePolicy = update
		}
	}
	return r
}

// IsSnapshotURL reports whether url names a snapshot repository.
func IsSnapshotURL(url string) bool {
	return strings.HasSuffix(strings.TrimRight(url, "/"), "snapshots")
}

// Validate checks that the remote is well-formed and serves exactly the
// kind of versions its URL implies.
func (r Remote) Validate() error {
	if r.ID == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "repository %q has no id", r.URL)
	}
	if r.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "repository %q has no url", r.ID)
	}
	if r.Release.Enabled == r.Snapshot.Enabled {
		return errors.New(errors.ErrCodeInvalidConfig,
			"repository %q must serve either releases or snapshots", r.ID)
	}
	if snap := IsSnapshotURL(r.URL); snap != r.Snapshot.Enabled {
		return errors.New(errors.ErrCodeInvalidConfig,
			"repository %q: snapshot policy does not match url %s", r.ID, r.URL)
	}
	if p := r.active(); !validPolicy(p.UpdatePolicy) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"repository %q: unknown update policy %q", r.ID, p.UpdatePolicy)
	}
	return nil
}

// Serves reports whether the remote hosts versions of the given kind.
func (r Remote) Serves(snapshot bool) bool {
	if snapshot {
		return r.Snapshot.Enabled
	}
	return r.Release.Enabled
}

func (r Remote) active() Policy {
	if r.Snapshot.Enabled {
		return r.Snapshot
	}
	return r.Release
}

// MetadataTTL is the cache lifetime of metadata fetched from r.
func (r Remote) MetadataTTL() (time.Duration, bool) { return r.active().TTL() }

func (r Remote) String() string { return r.ID + " (" + r.URL + ")" }

// ValidateAll validates every remote and rejects duplicate ids.
func ValidateAll(remotes []Remote) error {
	seen := make(map[string]bool, len(remotes))
	for _, r := range remotes {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate repository id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
