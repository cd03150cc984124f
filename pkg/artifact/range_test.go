package artifact

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"[1.0,2.0]", "[1.0,2.0]", false},
		{"[1.0,2.0)", "[1.0,2.0)", false},
		{"(1.0,2.0]", "(1.0,2.0]", false},
		{"(1.0,)", "(1.0,)", false},
		{"[1.0,)", "[1.0,)", false},
		{"(,2.0]", "(,2.0]", false},
		{"[ 4 , 5 )", "[4,5)", false},
		{"[1.5]", "[1.5]", false},
		{"1.2.*", "1.2.*", false},
		{"1.2", "1.2.*", false},
		{"*", "*", false},

		{"", "", true},
		{"[1.0,2.0", "", true},
		{"1.0,2.0]", "", true},
		{"[2.0,1.0]", "", true},
		{"[1.0,1.0)", "", true},
		{"(1.0)", "", true},
		{"(,)", "", true},
		{"[1,2,3]", "", true},
		{"[1,2),[3,4)", "", true},
		{"1.*.2", "", true},
		{"1..2", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeMalformedRange) {
					t.Errorf("ParseRange(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeMalformedRange)
				}
				return
			}
			if got := r.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		rng  string
		v    string
		want bool
	}{
		{"[4,5)", "4", true},
		{"[4,5)", "4.13", true},
		{"[4,5)", "5", false},
		{"[4,5)", "5.0-SNAPSHOT", true},
		{"[4,5)", "3.8", false},
		{"(4,5]", "4", false},
		{"(4,5]", "5.0", true},
		{"(,1.0]", "0.1", true},
		{"(1.0,)", "99", true},
		{"[1.5]", "1.5", true},
		{"[1.5]", "1.5.0", true},
		{"[1.5]", "1.5.1", false},
		{"1.2.*", "1.2", true},
		{"1.2.*", "1.2.3", true},
		{"1.2.*", "1.2-SNAPSHOT", true},
		{"1.2.*", "1.20", false},
		{"1.2.*", "1.3", false},
		{"1.2.*", "1", false},
		{"4.1", "4.10", false},
		{"*", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.rng+"_"+tt.v, func(t *testing.T) {
			r := MustParseRange(tt.rng)
			if got := r.Contains(Version(tt.v)); got != tt.want {
				t.Errorf("%s.Contains(%q) = %v, want %v", tt.rng, tt.v, got, tt.want)
			}
		})
	}
}

// TestRangeContains_Bounds generates random intervals and checks containment
// at, just inside and just outside each bound against direct arithmetic.
func TestRangeContains_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 500 {
		lo := rng.Intn(50)
		hi := lo + 1 + rng.Intn(50)
		loInc, hiInc := rng.Intn(2) == 0, rng.Intn(2) == 0

		open, closeB := "(", ")"
		if loInc {
			open = "["
		}
		if hiInc {
			closeB = "]"
		}
		expr := fmt.Sprintf("%s%d,%d%s", open, lo, hi, closeB)
		r, err := ParseRange(expr)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", expr, err)
		}

		for _, n := range []int{lo - 1, lo, lo + 1, hi - 1, hi, hi + 1} {
			if n < 0 {
				continue
			}
			want := (n > lo || (n == lo && loInc)) && (n < hi || (n == hi && hiInc))
			if got := r.Contains(Version(fmt.Sprint(n))); got != want {
				t.Errorf("%s.Contains(%d) = %v, want %v", expr, n, got, want)
			}
		}
		// Just inside the lower bound by a sub-segment.
		inner := Version(fmt.Sprintf("%d.0.1", lo))
		if !r.Contains(inner) {
			t.Errorf("%s.Contains(%s) = false, want true", expr, inner)
		}
	}
}

func TestPrefixRange(t *testing.T) {
	r, err := PrefixRange("")
	if err != nil || !r.Contains("0.0.1") {
		t.Errorf("PrefixRange(\"\") should match everything, err=%v", err)
	}
	r, err = PrefixRange("4.13")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Contains("4.13.2") || r.Contains("4.12") {
		t.Errorf("PrefixRange(4.13) = %s matches wrongly", r)
	}
}

func TestIsRange(t *testing.T) {
	for s, want := range map[string]bool{
		"[4,5)": true, "(,1]": true, "1.2.*": true, "4.13": false, "": false, "1.0-SNAPSHOT": false,
	} {
		if got := IsRange(s); got != want {
			t.Errorf("IsRange(%q) = %v, want %v", s, got, want)
		}
	}
}
