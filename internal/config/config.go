// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/nodectl/internal/search"
)

// EnvFile names the environment variable overriding the config file path.
const EnvFile = "NODECTL_CFG_FILE"

// FileName is the config file looked up in the user config directory.
const FileName = "nodectl.yaml"

// Type is a loaded nodectl.yaml. Source is the file it came from. Data is
// the raw YAML tree. Namespace, usually the running command's name, makes
// lookups try "<namespace>.<key>" before "<key>".
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config is the process-wide configuration.
var Config Type

// A missing config file is not an error at startup.
func init() {
	_, _ = Load()
}

// fetch resolves key and converts it with conv. A missing key yields the
// single default when one is given.
func fetch[T any](key string, conv func(any) (T, error), defaultValue []T) (T, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		var zero T
		return zero, err
	}
	return conv(val)
}

func asBool(val any) (bool, error) {
	if b, ok := val.(bool); ok {
		return b, nil
	}
	return false, errors.New("value is not a bool")
}

// asInt accepts any numeric YAML scalar. Floats are truncated.
func asInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, errors.New("value is not an int")
}

func asString(val any) (string, error) {
	if s, ok := val.(string); ok {
		return s, nil
	}
	return "", errors.New("value is not a string")
}

func asStrings(val any) ([]string, error) {
	switch v := val.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("slice element %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.New("value is not a slice")
}

// GetBool returns the bool at a dotted key.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	return fetch(key, asBool, defaultValue)
}

// GetInt returns the int at a dotted key.
func GetInt(key string, defaultValue ...int) (int, error) {
	return fetch(key, asInt, defaultValue)
}

// GetString returns the string at a dotted key, e.g. "colors.title".
func GetString(key string, defaultValue ...string) (string, error) {
	return fetch(key, asString, defaultValue)
}

// GetStringSlice returns the list of strings at a dotted key.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return fetch(key, asStrings, defaultValue)
}

// GetPrefixed returns the extra prefixed filters declared for a kind under
// "<kind>.prefixed". Entries are either {filter, prefix} maps or
// "filter:prefix" strings. A missing key yields no filters.
func GetPrefixed(kind string) ([]search.PrefixedFilter, error) {
	val, err := lookup(kind + ".prefixed")
	if err != nil {
		return nil, nil
	}

	list, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s.prefixed is not a list", kind)
	}

	result := make([]search.PrefixedFilter, 0, len(list))
	for i, item := range list {
		var pf search.PrefixedFilter
		switch v := item.(type) {
		case string:
			filter, prefix, found := strings.Cut(v, ":")
			if !found {
				return nil, fmt.Errorf("%s.prefixed[%d]: want filter:prefix, got %q", kind, i, v)
			}
			pf = search.PrefixedFilter{Filter: filter, Prefix: prefix}
		case map[string]interface{}:
			filter, _ := v["filter"].(string)
			prefix, _ := v["prefix"].(string)
			pf = search.PrefixedFilter{Filter: filter, Prefix: prefix}
		default:
			return nil, fmt.Errorf("%s.prefixed[%d] is not a map or string", kind, i)
		}
		if pf.Filter == "" || pf.Prefix == "" {
			return nil, fmt.Errorf("%s.prefixed[%d] needs both filter and prefix", kind, i)
		}
		result = append(result, pf)
	}

	return result, nil
}

// Load reads a YAML config into the global Config. An explicit path wins
// over NODECTL_CFG_FILE and the user config directory.
func Load(cfgFilePath ...string) (Type, error) {
	path := ""
	if len(cfgFilePath) > 0 {
		path = cfgFilePath[0]
	}
	if path == "" {
		found, err := getConfigFile()
		if err != nil {
			return Type{}, err
		}
		path = found
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{Source: path, Data: data}
	return Config, nil
}

// lookup resolves key against the global Config, loading it on first use and
// trying the namespaced key first.
func lookup(key string) (any, error) {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}
	return Config.get(key)
}

// get walks Data along a dotted key. With a Namespace set, the namespaced
// key ("ls.colors.title") is tried before the plain one.
func (cfg *Type) get(kspec string) (any, error) {
	candidates := []string{kspec}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidates {
		if val, ok := walk(cfg.Data, strings.Split(key, ".")); ok {
			return val, nil
		}
	}
	return nil, fmt.Errorf("no valid path found among: %v", candidates)
}

func walk(node any, path []string) (any, bool) {
	for _, name := range path {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[name]; !ok {
			return nil, false
		}
	}
	return node, true
}

// getConfigFile finds the YAML config. NODECTL_CFG_FILE, when set, must name
// a regular file. Otherwise nodectl.yaml under os.UserConfigDir is used if
// present.
func getConfigFile() (string, error) {
	if explicit := os.Getenv(EnvFile); explicit != "" {
		info, err := os.Stat(explicit)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at %s path: %s", EnvFile, explicit)
		case info.IsDir():
			return "", fmt.Errorf("%s points to a directory: %s", EnvFile, explicit)
		}
		log.Debugf("using config file from %s: %s", EnvFile, explicit)
		return explicit, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	file := filepath.Join(dir, FileName)
	if info, err := os.Stat(file); err != nil || info.IsDir() {
		return "", errors.New("no config file found in standard locations")
	}
	log.Debugf("using config file: %s", file)
	return file, nil
}
