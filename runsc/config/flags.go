// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"flag"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// RegisterFlags registers flags used to populate Config.
func RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.String("config", "", "TOML file with settings; flags given on the command line override it.")

	// Debugging flags.
	flagSet.String("log", "", "file path where internal errors are logged in JSON format, default is none.")
	flagSet.Bool("debug", false, "enable debug logging.")
	flagSet.String("log-format", "text", "log format: text (default), json, or json-k8s.")
	flagSet.String("debug-log", "", "additional location for logs. The following variables are available: %TIMESTAMP%, %PID%, %COMMAND%.")
	flagSet.String("debug-log-format", "text", "log format: text (default), json, or json-k8s.")
	flagSet.Bool("alsologtostderr", false, "send log messages to stderr.")
	flagSet.Bool("metrics", false, "print wait metrics in Prometheus text format to stderr on exit.")

	// Flags that control signal handling.
	flagSet.String("strategy", "threaded", "signal wait strategy: threaded (default, sees signals sent to the process), native (rt_sigtimedwait, sees only signals sent to the waiting thread or already pending), or auto.")
	flagSet.Bool("sigchld-shim", true, "install a SIGCHLD handler if none is set, so that SIGCHLD can be waited for.")
}

// fields calls fn for every Config field that has a flag.
func fields(c *Config, fn func(name string, f reflect.StructField, v reflect.Value)) {
	obj := reflect.ValueOf(c).Elem()
	st := obj.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		name, ok := f.Tag.Lookup("flag")
		if !ok {
			// No flag set for this field.
			continue
		}
		fn(name, f, obj.Field(i))
	}
}

// NewFromFlags creates a new Config with values coming from command line flags
// and, if --config is set, from that file.
func NewFromFlags(flagSet *flag.FlagSet) (*Config, error) {
	conf := &Config{}
	fields(conf, func(name string, _ reflect.StructField, v reflect.Value) {
		fl := flagSet.Lookup(name)
		if fl == nil {
			panic(fmt.Sprintf("Flag %q not found", name))
		}
		v.Set(reflect.ValueOf(fl.Value.(flag.Getter).Get()))
	})

	if conf.ConfigFile != "" {
		if err := conf.loadFile(flagSet); err != nil {
			return nil, err
		}
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// loadFile overrides every setting present in c.ConfigFile, except those that
// were given explicitly on the command line.
func (c *Config) loadFile(flagSet *flag.FlagSet) error {
	explicit := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	file := *c
	md, err := toml.DecodeFile(c.ConfigFile, &file)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", c.ConfigFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys in config file %q: %s", c.ConfigFile, strings.Join(keys, ", "))
	}

	fileObj := reflect.ValueOf(&file).Elem()
	fields(c, func(name string, f reflect.StructField, v reflect.Value) {
		key := f.Tag.Get("toml")
		if key == "" || key == "-" || explicit[name] || !md.IsDefined(key) {
			return
		}
		v.Set(fileObj.FieldByIndex(f.Index))
	})
	return nil
}

// ToFlags returns a slice of flags that correspond to the given Config.
func (c *Config) ToFlags() []string {
	var rv []string

	// Construct a temporary set for default plumbing.
	flagSet := flag.NewFlagSet("tmp", flag.ContinueOnError)
	RegisterFlags(flagSet)

	fields(c, func(name string, _ reflect.StructField, v reflect.Value) {
		val := getVal(v)
		fl := flagSet.Lookup(name)
		if fl == nil {
			panic(fmt.Sprintf("Flag %q not found", name))
		}
		if val == fl.DefValue {
			return
		}
		rv = append(rv, fmt.Sprintf("--%s=%s", fl.Name, val))
	})
	return rv
}

func getVal(field reflect.Value) string {
	switch field.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(field.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(field.Uint(), 10)
	case reflect.String:
		return field.String()
	default:
		panic("unknown type " + field.Kind().String())
	}
}
