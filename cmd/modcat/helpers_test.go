package main_test

import "github.com/fwojciec/modcat/config"

func testConfig(sourceURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.SourceURL = sourceURL
	return cfg
}
