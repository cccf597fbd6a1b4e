package internal

import (
	"os"
)

const dirMode = 0755

func EnsureDirExists(dir string) error {
	_, err := os.Stat(dir)
	if err == nil {
		return nil
	}

	if !os.IsNotExist(err) {
		return err
	}

	return os.MkdirAll(dir, dirMode)
}
