package artifact

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1", "1.0.0", 0},
		{"1.0", "1.1", -1},
		{"1.10", "1.9", 1},
		{"4.13", "4.12", 1},
		{"2.0", "10.0", -1},
		{"1.0-SNAPSHOT", "1.0", -1},
		{"1.0", "1.0-SNAPSHOT", 1},
		{"1.0-rc1", "1.0", -1},
		{"1.0-rc1", "1.0-rc2", -1},
		{"1.0-rc10", "1.0-rc2", 1},
		{"1.0-alpha", "1.0-beta", -1},
		{"1.0-ALPHA", "1.0-alpha", 0},
		{"1.0-SNAPSHOT", "1.0.1", -1},
		{"31.0-jre", "31.1-jre", -1},
		{"1.0rc1", "1.0-rc1", 0},
		{"99999999999999999999", "99999999999999999998", 1},
		{"1.0-a", "1.0-a-b", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := CompareVersions(Version(tt.a), Version(tt.b)); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareVersions_TotalOrder(t *testing.T) {
	vs := []Version{
		"1", "1.0", "1.0.1", "1.1", "1.10", "1.9", "2.0-SNAPSHOT", "2.0", "2.0-rc1",
		"2.0-alpha", "2.0-beta2", "2.0-beta10", "10", "0.9", "1.0-SNAPSHOT", "1.0-jre",
		"3.8", "4.10", "4.12", "4.13", "4.13.2", "5.0-M1",
	}

	for _, a := range vs {
		if CompareVersions(a, a) != 0 {
			t.Errorf("CompareVersions(%q, %q) != 0", a, a)
		}
		for _, b := range vs {
			ab, ba := CompareVersions(a, b), CompareVersions(b, a)
			if ab != -ba {
				t.Errorf("not antisymmetric: cmp(%q,%q)=%d cmp(%q,%q)=%d", a, b, ab, b, a, ba)
			}
			for _, c := range vs {
				if ab <= 0 && CompareVersions(b, c) <= 0 && CompareVersions(a, c) > 0 {
					t.Errorf("not transitive: %q <= %q <= %q but %q > %q", a, b, c, a, c)
				}
			}
		}
	}
}

func TestSnapshotSortsBeforeRelease(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 200 {
		v := strconv.Itoa(rng.Intn(20)) + "." + strconv.Itoa(rng.Intn(20)) + "." + strconv.Itoa(rng.Intn(20))
		snap := Version(v + "-SNAPSHOT")
		if !snap.IsSnapshot() {
			t.Fatalf("%q should be a snapshot", snap)
		}
		if CompareVersions(snap, Version(v)) != -1 {
			t.Errorf("%q should sort before %q", snap, v)
		}
	}
}

func TestSortVersions(t *testing.T) {
	vs := []Version{"4.13", "3.8", "4.10", "4.12", "4.13-SNAPSHOT"}
	SortVersions(vs)
	want := []Version{"3.8", "4.10", "4.12", "4.13-SNAPSHOT", "4.13"}
	if !slices.Equal(vs, want) {
		t.Errorf("SortVersions() = %v, want %v", vs, want)
	}

	latest, ok := Latest(vs)
	if !ok || latest != "4.13" {
		t.Errorf("Latest() = %q, %v", latest, ok)
	}
	if _, ok := Latest(nil); ok {
		t.Error("Latest(nil) should report false")
	}
}

func TestVersionSegments(t *testing.T) {
	got := Version("1.0rc2-SNAPSHOT").Segments()
	want := []string{"1", "0", "rc", "2", "SNAPSHOT"}
	if !slices.Equal(got, want) {
		t.Errorf("Segments() = %v, want %v", got, want)
	}
}
