package repository

import (
	"slices"
	"testing"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
)

const snapshotMetadata = `<metadata modelVersion="1.1.0">
  <groupId>org.example</groupId>
  <artifactId>lib</artifactId>
  <version>1.1-SNAPSHOT</version>
  <versioning>
    <snapshot>
      <timestamp>20240102.030405</timestamp>
      <buildNumber>7</buildNumber>
    </snapshot>
    <lastUpdated>20240102030405</lastUpdated>
    <snapshotVersions>
      <snapshotVersion>
        <classifier>sources</classifier>
        <extension>jar</extension>
        <value>1.1-20240102.030405-6</value>
      </snapshotVersion>
    </snapshotVersions>
  </versioning>
</metadata>`

func TestParseMetadata_Versions(t *testing.T) {
	m, err := ParseMetadata([]byte(`<metadata><versioning>
		<latest>2.0</latest><release>2.0</release>
		<versions><version>1.0</version><version>2.0</version></versions>
	</versioning></metadata>`))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	want := []artifact.Version{"1.0", "2.0"}
	if got := m.AllVersions(); !slices.Equal(got, want) {
		t.Errorf("AllVersions() = %v, want %v", got, want)
	}

	m, _ = ParseMetadata([]byte(`<metadata><versioning><release>3.1</release></versioning></metadata>`))
	if got := m.AllVersions(); !slices.Equal(got, []artifact.Version{"3.1"}) {
		t.Errorf("fallback AllVersions() = %v", got)
	}
}

func TestParseMetadata_Malformed(t *testing.T) {
	if _, err := ParseMetadata([]byte("<metadata><versioning>")); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestMetadata_SnapshotFileVersion(t *testing.T) {
	m, err := ParseMetadata([]byte(snapshotMetadata))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		coord string
		want  artifact.Version
	}{
		{"org.example:lib:1.1-SNAPSHOT", "1.1-20240102.030405-7"},
		{"org.example:lib:jar:sources:1.1-SNAPSHOT", "1.1-20240102.030405-6"},
		{"org.example:lib:1.1", "1.1"},
	}
	for _, tt := range tests {
		got := m.SnapshotFileVersion(artifact.MustParseCoordinate(tt.coord))
		if got != tt.want {
			t.Errorf("SnapshotFileVersion(%s) = %s, want %s", tt.coord, got, tt.want)
		}
	}
}
