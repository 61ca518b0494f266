package api

import "github.com/wonny/stockpicker/pkg/config"

func testConfig() *config.Config {
	return &config.Config{Port: "18080", Env: "development"}
}
