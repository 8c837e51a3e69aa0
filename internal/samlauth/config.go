// Package samlauth integrates the SAML service provider. It authenticates a
// browser once against the identity provider; the rest of the application
// only ever sees the resulting domain user.
package samlauth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the saml section of the operator-provided YAML file.
type Config struct {
	SP struct {
		EntityID                 string `yaml:"entityId"`
		AssertionConsumerService string `yaml:"assertionConsumerService"`
		PrivateKey               string `yaml:"privateKey"`
		Certificate              string `yaml:"certificate"`
	} `yaml:"sp"`
	IDP struct {
		EntityID    string `yaml:"entityId"`
		SSOURL      string `yaml:"ssoUrl"`
		Certificate string `yaml:"certificate"`
		MetadataURL string `yaml:"metadataUrl"`
	} `yaml:"idp"`
}

// configFile mirrors the full file layout; only the saml section is used
// here, the rest of the application is configured via the environment.
type configFile struct {
	SAML Config `yaml:"saml"`
}

// LoadConfig reads and validates the SAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read saml config: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse saml config: %w", err)
	}

	cfg := file.SAML
	if cfg.SP.EntityID == "" || cfg.SP.PrivateKey == "" || cfg.SP.Certificate == "" {
		return nil, fmt.Errorf("saml config: sp entityId, privateKey and certificate are required")
	}
	if cfg.IDP.MetadataURL == "" && (cfg.IDP.SSOURL == "" || cfg.IDP.Certificate == "") {
		return nil, fmt.Errorf("saml config: idp needs either metadataUrl or ssoUrl plus certificate")
	}

	return &cfg, nil
}
