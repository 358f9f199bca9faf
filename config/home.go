package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

func ExpandHomePath(path string) string {
	res, err := homedir.Expand(path)
	if err != nil {
		panic(err)
	}
	return res
}

// Load reads the tool's config from homeDir. A home directory that was never
// initialized is not an error; the defaults apply.
func Load(homeDir string) (*Config, error) {
	f, err := os.Open(filepath.Join(homeDir, FileName))
	if os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file")
	}
	defer f.Close()
	return Parse(f)
}

// Init creates homeDir and writes the default config file into it. It
// refuses to clobber an existing config.
func Init(homeDir string) error {
	if err := os.MkdirAll(homeDir, 0700); err != nil {
		return errors.Wrap(err, "error creating home directory")
	}
	target := filepath.Join(homeDir, FileName)
	if _, err := os.Stat(target); err == nil {
		return errors.Errorf("%s already exists", target)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := ioutil.WriteFile(target, DefaultFileText(), 0644); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}
