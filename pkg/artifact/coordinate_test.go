package artifact

import (
	"testing"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    Coordinate
		wantErr bool
	}{
		{"junit:junit:4.13", Coordinate{GroupID: "junit", ArtifactID: "junit", Version: "4.13"}, false},
		{"org.example:lib:pom:1.0", Coordinate{GroupID: "org.example", ArtifactID: "lib", Extension: "pom", Version: "1.0"}, false},
		{"org.example:lib:jar:sources:1.0", Coordinate{GroupID: "org.example", ArtifactID: "lib", Extension: "jar", Classifier: "sources", Version: "1.0"}, false},
		{"junit:junit:[4,5)", Coordinate{GroupID: "junit", ArtifactID: "junit", Version: "[4,5)"}, false},

		{"junit:junit", Coordinate{}, true},
		{"junit", Coordinate{}, true},
		{"a:b:c:d:e:f", Coordinate{}, true},
		{"junit::4.13", Coordinate{}, true},
		{"junit:junit:", Coordinate{}, true},
		{"../etc:passwd:1", Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeMalformedCoordinate) {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedCoordinate)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseCoordinate(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoordinate_StringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"junit:junit:4.13",
		"org.example:lib:pom:1.0",
		"org.example:lib:jar:sources:1.0",
		"org.example:lib:zip:dist:2.0-SNAPSHOT",
	} {
		c := MustParseCoordinate(s)
		if got := c.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestCoordinate_Identity(t *testing.T) {
	a := MustParseCoordinate("junit:junit:4.12")
	b := MustParseCoordinate("junit:junit:4.13")
	src := MustParseCoordinate("junit:junit:jar:sources:4.13")

	if !a.SameArtifact(b) {
		t.Error("versions of the same artifact should share a key")
	}
	if a.SameArtifact(src) {
		t.Error("classifier should distinguish artifacts")
	}
	if a.GA() != src.GA() {
		t.Error("GA should ignore classifier")
	}
	if a.Key() != "junit:junit:jar" {
		t.Errorf("Key() = %q", a.Key())
	}
}

func TestCoordinate_Paths(t *testing.T) {
	c := MustParseCoordinate("org.apache.commons:commons-lang3:3.12.0")
	if got, want := c.Path(), "org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0.jar"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if got, want := c.POM().Path(), "org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0.pom"; got != want {
		t.Errorf("POM().Path() = %q, want %q", got, want)
	}
	if got, want := c.MetadataPath(), "org/apache/commons/commons-lang3/maven-metadata.xml"; got != want {
		t.Errorf("MetadataPath() = %q, want %q", got, want)
	}

	snap := MustParseCoordinate("org.example:lib:jar:tests:1.0-SNAPSHOT")
	got := snap.FilePath("1.0-20240101.120000-3")
	want := "org/example/lib/1.0-SNAPSHOT/lib-1.0-20240101.120000-3-tests.jar"
	if got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
	if got, want := snap.VersionMetadataPath(), "org/example/lib/1.0-SNAPSHOT/maven-metadata.xml"; got != want {
		t.Errorf("VersionMetadataPath() = %q, want %q", got, want)
	}
}

func TestParseGA(t *testing.T) {
	c, err := ParseGA("junit:junit")
	if err != nil || c.GA() != "junit:junit" || c.Version != "" {
		t.Errorf("ParseGA() = %+v, %v", c, err)
	}
	if _, err := ParseGA("junit:junit:4.13"); err == nil {
		t.Error("ParseGA should reject versions")
	}
}
