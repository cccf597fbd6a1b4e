package entity

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Remote struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
}

// Config is the per-source-repository document persisted under the base
// directory. TargetRemote and TimesToLoop are only consumed by the Actions
// workflow emitter but are stored here so one file holds all state. Extra
// keeps keys this version doesn't know about intact across rewrites.
type Config struct {
	SourceRepo                 string         `yaml:"source_repo"`
	TargetRepo                 string         `yaml:"target_repo"`
	TransformationInstructions string         `yaml:"transformation_instructions"`
	ConfigVersion              string         `yaml:"config_version"`
	DefaultRemote              string         `yaml:"default_remote,omitempty"`
	AutoSync                   bool           `yaml:"auto_sync,omitempty"`
	Remotes                    []Remote       `yaml:"remotes,omitempty"`
	TargetRemote               string         `yaml:"target_remote,omitempty"`
	TimesToLoop                int            `yaml:"times_to_loop,omitempty"`
	Extra                      map[string]any `yaml:",inline"`
}

func UnmarshalConfig(content []byte) (Config, error) {
	var config Config
	err := yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error deserializing config: %v", err)
	}

	// Keep documents without unknown fields canonical.
	if len(config.Extra) == 0 {
		config.Extra = nil
	}

	return config, nil
}

func (c Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error serializing config: %v", err)
	}

	return out, nil
}

// Remote returns the remote with the given name, if registered.
func (c Config) Remote(name string) (Remote, bool) {
	for _, remote := range c.Remotes {
		if remote.Name == name {
			return remote, true
		}
	}

	return Remote{}, false
}
