package repotest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
)

// POM describes a project object model to publish.
type POM struct {
	Coordinate string // group:artifact:version
	Parent     string // optional group:artifact:version
	Packaging  string
	Properties map[string]string
	Deps       []Dep
	Managed    []Dep
}

// Dep is one <dependency> element. Version may be empty or hold a range
// or a ${property} reference.
type Dep struct {
	GA         string
	Version    string
	Scope      string
	Type       string
	Classifier string
	Optional   bool
	Exclusions []string // group:artifact, "*" allowed
}

// XML renders the POM document.
func (p POM) XML() string {
	c := artifact.MustParseCoordinate(p.Coordinate)
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<project xmlns=\"http://maven.apache.org/POM/4.0.0\">\n")
	b.WriteString("  <modelVersion>4.0.0</modelVersion>\n")
	if p.Parent != "" {
		pc := artifact.MustParseCoordinate(p.Parent)
		fmt.Fprintf(&b, "  <parent>\n    <groupId>%s</groupId>\n    <artifactId>%s</artifactId>\n    <version>%s</version>\n  </parent>\n",
			pc.GroupID, pc.ArtifactID, pc.Version)
	}
	fmt.Fprintf(&b, "  <groupId>%s</groupId>\n  <artifactId>%s</artifactId>\n  <version>%s</version>\n",
		c.GroupID, c.ArtifactID, c.Version)
	if p.Packaging != "" {
		fmt.Fprintf(&b, "  <packaging>%s</packaging>\n", p.Packaging)
	}
	if len(p.Properties) > 0 {
		keys := make([]string, 0, len(p.Properties))
		for k := range p.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("  <properties>\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "    <%s>%s</%s>\n", k, p.Properties[k], k)
		}
		b.WriteString("  </properties>\n")
	}
	if len(p.Managed) > 0 {
		b.WriteString("  <dependencyManagement>\n")
		writeDeps(&b, p.Managed, "    ")
		b.WriteString("  </dependencyManagement>\n")
	}
	writeDeps(&b, p.Deps, "  ")
	b.WriteString("</project>\n")
	return b.String()
}

func writeDeps(b *strings.Builder, deps []Dep, indent string) {
	if len(deps) == 0 {
		return
	}
	b.WriteString(indent + "<dependencies>\n")
	for _, d := range deps {
		g, a, _ := strings.Cut(d.GA, ":")
		in := indent + "    "
		b.WriteString(indent + "  <dependency>\n")
		fmt.Fprintf(b, "%s<groupId>%s</groupId>\n%s<artifactId>%s</artifactId>\n", in, g, in, a)
		optional(b, in, "version", d.Version)
		optional(b, in, "type", d.Type)
		optional(b, in, "classifier", d.Classifier)
		optional(b, in, "scope", d.Scope)
		if d.Optional {
			fmt.Fprintf(b, "%s<optional>true</optional>\n", in)
		}
		if len(d.Exclusions) > 0 {
			b.WriteString(in + "<exclusions>\n")
			for _, e := range d.Exclusions {
				eg, ea, _ := strings.Cut(e, ":")
				fmt.Fprintf(b, "%s  <exclusion><groupId>%s</groupId><artifactId>%s</artifactId></exclusion>\n", in, eg, ea)
			}
			b.WriteString(in + "</exclusions>\n")
		}
		b.WriteString(indent + "  </dependency>\n")
	}
	b.WriteString(indent + "</dependencies>\n")
}

func optional(b *strings.Builder, indent, tag, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s<%s>%s</%s>\n", indent, tag, value, tag)
	}
}
