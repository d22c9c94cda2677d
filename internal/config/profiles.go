package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"gopkg.in/yaml.v3"
)

// ProfilesFile is the on-disk layout of user profiles.
type ProfilesFile struct {
	Profiles []analysis.Profile `yaml:"profiles"`
}

// LoadProfiles reads a YAML profiles file. Unknown keys are rejected and
// every profile is validated. An empty path yields no profiles.
func LoadProfiles(path string) ([]analysis.Profile, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var pf ProfilesFile
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	seen := map[string]bool{}
	var errs []error
	for _, p := range pf.Profiles {
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("duplicate profile %q", p.Name))
		}
		seen[p.Name] = true
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("profiles %s: %w", path, errors.Join(errs...))
	}
	return pf.Profiles, nil
}

// MarshalProfiles renders profiles in the same layout LoadProfiles reads.
func MarshalProfiles(ps []analysis.Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ProfilesFile{Profiles: ps}); err != nil {
		return nil, fmt.Errorf("marshal profiles: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal profiles: %w", err)
	}
	return buf.Bytes(), nil
}
