/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/drivesafe/params"
	"github.com/spf13/viper"
)

// sourceConfig builds the source config from flags, environment and config file.
// Column names may be overridden in the config file under columns.*.
func sourceConfig() (*params.SourceConfig, error) {
	c := params.DefaultSourceConfig()
	path, err := homedir.Expand(viper.GetString("source"))
	if err != nil {
		return nil, err
	}
	c.Path = path
	c.ChunkSize = viper.GetInt("chunk-size")
	c.Format = params.SourceFormat(viper.GetString("format"))
	c.Malformed = params.MalformedPolicy(viper.GetString("malformed"))
	if d := viper.GetString("delimiter"); d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", d)
		}
		c.Delimiter = r
	}
	if viper.IsSet("speed-factor") {
		c.SpeedFactor = viper.GetFloat64("speed-factor")
	}
	for key, field := range map[string]*string{
		"columns.trip_id": &c.Columns.TripID,
		"columns.lat":     &c.Columns.Lat,
		"columns.lng":     &c.Columns.Lng,
		"columns.alt":     &c.Columns.Alt,
		"columns.speed":   &c.Columns.Speed,
		"columns.bearing": &c.Columns.Bearing,
	} {
		if viper.IsSet(key) {
			*field = viper.GetString(key)
		}
	}
	return c, c.Validate()
}

func safetyConfig() (*params.SafetyConfig, error) {
	c := params.DefaultSafetyConfig()
	c.Mean = params.MeanPolicy(viper.GetString("mean-policy"))
	c.Max = params.MaxPolicy(viper.GetString("max-policy"))
	return c, c.Validate()
}

func webDaemonConfig() (*params.WebDaemonConfig, error) {
	c := params.DefaultWebDaemonConfig()
	c.Address = viper.GetString("address")
	var err error
	if c.Source, err = sourceConfig(); err != nil {
		return nil, err
	}
	if c.Safety, err = safetyConfig(); err != nil {
		return nil, err
	}
	if viper.IsSet("per-page") {
		c.Details.DefaultPerPage = viper.GetInt("per-page")
	}
	return c, nil
}
