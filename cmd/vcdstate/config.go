package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

// tomlSettings ensures TOML keys match Go struct field names verbatim,
// the same convention the ambient config layer this is modeled on uses.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see godoc for %s#%s", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// vcdConfig is the full set of options vcdstate accepts, mergeable from a
// TOML file and overridden individually by CLI flags.
type vcdConfig struct {
	Input      inputConfig
	Simulation simulationConfig
	Server     serverConfig
}

type inputConfig struct {
	Path      string `toml:",omitempty"`
	ChunkSize int    `toml:",omitempty"`
	Snappy    bool   `toml:",omitempty"`
	MMap      bool   `toml:",omitempty"`
	Follow    bool   `toml:",omitempty"`
}

type simulationConfig struct {
	Track   []string `toml:",omitempty"`
	Verbose bool     `toml:",omitempty"`
}

type serverConfig struct {
	Addr string `toml:",omitempty"`
}

func defaultConfig() vcdConfig {
	return vcdConfig{
		Input: inputConfig{ChunkSize: 4096},
		Server: serverConfig{Addr: ":8080"},
	}
}

func loadConfig(file string, cfg *vcdConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}
