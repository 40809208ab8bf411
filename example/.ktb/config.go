package main

import "github.com/hallgrim/ktb"

// Customize adjusts the configuration loaded from .ktb.yml at the
// repository root. Values set here override the file.
func Customize(cfg ktb.Config) ktb.Config {
	// cfg.Version = "0.45.2"
	// cfg.SourceRoots = map[string][]string{
	// 	"main": {"src/main/kotlin"},
	// 	"test": {"src/test/kotlin"},
	// }
	return cfg
}
