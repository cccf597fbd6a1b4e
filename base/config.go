package base

import (
	"fmt"
	"os"

	"github.com/femnad/mare"

	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/settings"
)

// ResolveDir maps the "use the working directory" sentinels to an absolute
// path; anything else is taken verbatim after user expansion.
func ResolveDir(dir string) (string, error) {
	if dir == "" || dir == "." {
		return os.Getwd()
	}

	return mare.ExpandUser(dir), nil
}

// Load reads the configuration document under dir. A missing or unparsable
// document is reported as absent, not as an error, since both mean the base
// directory hasn't been initialized yet.
func Load(dir string) (*entity.Config, error) {
	dir, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}

	configPath := settings.ConfigPath(dir)
	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading config %s: %v", configPath, err)
	}

	config, err := entity.UnmarshalConfig(content)
	if err != nil {
		internal.Log.Debugf("treating unparsable config %s as absent: %v", configPath, err)
		return nil, nil
	}

	return &config, nil
}

// Require loads the configuration document and turns absence into an error.
func Require(dir string) (*entity.Config, error) {
	config, err := Load(dir)
	if err != nil {
		return nil, err
	}

	if config == nil {
		return nil, fmt.Errorf("no configuration found in %s, run `remirror init` first", dir)
	}

	return config, nil
}

// Save rewrites the full configuration document, creating dir if necessary.
// The document is written to a temporary file and renamed into place so
// concurrent readers never observe a partial write.
func Save(config entity.Config, dir string) error {
	dir, err := ResolveDir(dir)
	if err != nil {
		return err
	}

	if err = internal.EnsureDirExists(dir); err != nil {
		return fmt.Errorf("error creating config dir %s: %v", dir, err)
	}

	content, err := config.Marshal()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, settings.ConfigFile+".*")
	if err != nil {
		return fmt.Errorf("error creating temp config file in %s: %v", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing config: %v", err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmpName, 0644); err != nil {
		return err
	}

	return os.Rename(tmpName, settings.ConfigPath(dir))
}
