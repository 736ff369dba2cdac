package shade

import (
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Config tunes a Collector. The zero value is a usable default: stress
// mode off, block capacity derived from the OS page size.
type Config struct {
	// Stress causes a full collection before every allocation. Spec
	// §4.1 describes this as a tool for smoking out missing Trace
	// implementations and handle misuse; it is never appropriate in
	// production, since it makes every allocation as expensive as a
	// full collection.
	Stress bool `yaml:"stress"`

	// BlockCapacity overrides the number of handle slots per shadow
	// stack block. Zero means derive it from the host's page size, as
	// spec §4.2 recommends.
	BlockCapacity int `yaml:"blockCapacity"`

	// Verbose makes Collector.Report also list the known payload type
	// names and their registration order.
	Verbose bool `yaml:"verbose"`
}

// LoadConfig reads a YAML-encoded Config from r, the same
// read-a-manifest-then-build pattern the teacher uses for addon
// manifests in cmd/mkaddon.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) blockCapacity() int {
	if c.BlockCapacity > 0 {
		return c.BlockCapacity
	}
	return blockCapacity
}
