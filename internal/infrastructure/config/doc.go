// Package config provides configuration loading for Soundview.
//
// Configuration is loaded from a YAML file with environment variable
// overrides, in increasing precedence:
//
//  1. Built-in defaults
//  2. YAML file values
//  3. SOUNDVIEW_* environment variables
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
//
// All loaded configurations are validated via Validate(); an invalid
// configuration is rejected at startup rather than failing later.
package config
