package cli

import (
	"strconv"
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/repository"
)

// parseDependency parses a coordinate argument into a root dependency.
// A version range is allowed; it is expanded during resolution.
func parseDependency(coord, scope string) (artifact.Dependency, error) {
	c, err := artifact.ParseCoordinate(coord)
	if err != nil {
		return artifact.Dependency{}, err
	}
	s, err := parseScope(scope)
	if err != nil {
		return artifact.Dependency{}, err
	}
	return artifact.Dependency{Coordinate: c, Scope: s}, nil
}

// parseConcrete parses a coordinate that must carry a plain version.
func parseConcrete(coord string) (artifact.Coordinate, error) {
	c, err := artifact.ParseCoordinate(coord)
	if err != nil {
		return artifact.Coordinate{}, err
	}
	if artifact.IsRange(string(c.Version)) {
		return artifact.Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate, "%s: a concrete version is required", coord)
	}
	return c, nil
}

func parseManaged(pins []string) ([]artifact.Dependency, error) {
	out := make([]artifact.Dependency, 0, len(pins))
	for _, p := range pins {
		c, err := parseConcrete(p)
		if err != nil {
			return nil, err
		}
		out = append(out, artifact.Dependency{Coordinate: c})
	}
	return out, nil
}

func parseExclusions(patterns []string) ([]artifact.Exclusion, error) {
	out := make([]artifact.Exclusion, 0, len(patterns))
	for _, p := range patterns {
		e, err := artifact.ParseExclusion(p)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// parseRepositories parses id=url pairs. A bare url gets an id derived from
// its position.
func parseRepositories(specs []string) ([]repository.Remote, error) {
	out := make([]repository.Remote, 0, len(specs))
	for i, s := range specs {
		id, url, ok := strings.Cut(s, "=")
		if !ok {
			id, url = "extra-"+strconv.Itoa(i+1), s
		}
		r := repository.NewRemote(strings.TrimSpace(id), strings.TrimSpace(url), "")
		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseScope(s string) (artifact.Scope, error) {
	if s == "" {
		return "", nil
	}
	switch sc := artifact.Scope(strings.ToLower(s)); sc {
	case artifact.ScopeCompile, artifact.ScopeRuntime, artifact.ScopeTest, artifact.ScopeProvided, artifact.ScopeSystem:
		return sc, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown scope %q", s)
}

func parseScopes(ss []string) ([]artifact.Scope, error) {
	out := make([]artifact.Scope, 0, len(ss))
	for _, s := range ss {
		sc, err := parseScope(s)
		if err != nil {
			return nil, err
		}
		if sc != "" {
			out = append(out, sc)
		}
	}
	return out, nil
}
