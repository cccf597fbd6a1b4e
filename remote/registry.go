// Package remote manages the named push destinations stored in the
// configuration document.
package remote

import (
	"errors"
	"fmt"

	"github.com/femnad/mare"

	"github.com/femnad/remirror/base"
	"github.com/femnad/remirror/entity"
	"github.com/femnad/remirror/internal"
	"github.com/femnad/remirror/settings"
)

// Add registers a push destination, replacing an existing entry with the
// same name in place. An empty branch defaults to settings.DefaultBranch.
func Add(dir, name, url, branch string) error {
	if name == "" || url == "" {
		return errors.New("remote add requires a name and a URL")
	}

	config, err := base.Require(dir)
	if err != nil {
		return err
	}

	if branch == "" {
		branch = settings.DefaultBranch
	}
	entry := entity.Remote{Name: name, URL: url, Branch: branch}

	updated := false
	for i, existing := range config.Remotes {
		if existing.Name == name {
			config.Remotes[i] = entry
			updated = true
			break
		}
	}
	if !updated {
		config.Remotes = append(config.Remotes, entry)
	}

	if err = base.Save(*config, dir); err != nil {
		return err
	}

	if updated {
		internal.Log.Infof("updated remote %s -> %s (branch %s)", name, url, branch)
	} else {
		internal.Log.Infof("added remote %s -> %s (branch %s)", name, url, branch)
	}

	return nil
}

// List returns the registered remotes in registry order. An initialized
// document with no remotes yields an empty list, not an error.
func List(dir string) ([]entity.Remote, error) {
	config, err := base.Require(dir)
	if err != nil {
		return nil, err
	}

	remotes := make([]entity.Remote, len(config.Remotes))
	copy(remotes, config.Remotes)

	return remotes, nil
}

// Format renders remotes one per line for console output.
func Format(remotes []entity.Remote) []string {
	return mare.Map(remotes, func(remote entity.Remote) string {
		return fmt.Sprintf("%s\t%s\t%s", remote.Name, remote.URL, remote.Branch)
	})
}

// Remove deletes a remote by name. Removing an unknown name is a no-op and
// doesn't rewrite the document.
func Remove(dir, name string) (bool, error) {
	config, err := base.Require(dir)
	if err != nil {
		return false, err
	}

	index := -1
	for i, existing := range config.Remotes {
		if existing.Name == name {
			index = i
			break
		}
	}

	if index == -1 {
		internal.Log.Infof("remote %s not found, nothing to remove", name)
		return false, nil
	}

	config.Remotes = append(config.Remotes[:index], config.Remotes[index+1:]...)
	if err = base.Save(*config, dir); err != nil {
		return false, err
	}

	internal.Log.Infof("removed remote %s", name)
	return true, nil
}
