package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port int    `yaml:"port"`
	DB   string `yaml:"db"`
	// TrustedProxies lists peers whose forwarding headers are honored:
	// exact IPs, CIDR prefixes, or "local".
	TrustedProxies []string `yaml:"trustedProxies"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}
