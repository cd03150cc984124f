package pom

import (
	"encoding/xml"
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Project is the subset of a pom.xml document the resolver reads.
type Project struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Packaging    string          `xml:"packaging"`
	Name         string          `xml:"name"`
	Description  string          `xml:"description"`
	Parent       *Parent         `xml:"parent"`
	Properties   Properties      `xml:"properties"`
	Dependencies []XMLDependency `xml:"dependencies>dependency"`
	Management   []XMLDependency `xml:"dependencyManagement>dependencies>dependency"`
}

// Parent is the <parent> element.
type Parent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// XMLDependency is a <dependency> element as written, before interpolation.
type XMLDependency struct {
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Version    string         `xml:"version"`
	Type       string         `xml:"type"`
	Classifier string         `xml:"classifier"`
	Scope      string         `xml:"scope"`
	Optional   string         `xml:"optional"`
	SystemPath string         `xml:"systemPath"`
	Exclusions []XMLExclusion `xml:"exclusions>exclusion"`
}

// XMLExclusion is an <exclusion> element.
type XMLExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// Properties holds the free-form <properties> children.
type Properties map[string]string

// UnmarshalXML collects each child element as name → text.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if *p == nil {
		*p = make(Properties)
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			(*p)[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			return nil
		}
	}
}

// Parse decodes a pom.xml document.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "malformed pom")
	}
	return &p, nil
}

// effectiveGroupID returns the project's groupId, inherited from the parent
// when omitted.
func (p *Project) effectiveGroupID() string {
	if p.GroupID == "" && p.Parent != nil {
		return p.Parent.GroupID
	}
	return p.GroupID
}

func (p *Project) effectiveVersion() string {
	if p.Version == "" && p.Parent != nil {
		return p.Parent.Version
	}
	return p.Version
}
