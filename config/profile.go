package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// PracticeProfile identifies the practitioner issuing receipts.
type PracticeProfile struct {
	// Name is the issuer printed on receipts.
	Name string `yaml:"name" json:"name"`
	// TaxID is the issuer CPF/CNPJ.
	TaxID string `yaml:"tax_id" json:"taxId"`
	// Registration is the professional council number (e.g. CRP).
	Registration string `yaml:"registration" json:"registration"`
	City         string `yaml:"city" json:"city"`
	Address      string `yaml:"address" json:"address"`
	// Locale drives money formatting on receipts, as a BCP 47 tag.
	Locale string `yaml:"locale" json:"locale"`
	// ServiceDescription names the service on receipts, e.g. "psychotherapy".
	ServiceDescription string `yaml:"service_description" json:"serviceDescription"`
}

func DefaultProfile() *PracticeProfile {
	return &PracticeProfile{
		Locale:             "pt-BR",
		ServiceDescription: "sessions",
	}
}

func (p *PracticeProfile) Normalize() {
	if p.Locale == "" {
		p.Locale = "pt-BR"
	}
	if p.ServiceDescription == "" {
		p.ServiceDescription = "sessions"
	}
}

// LoadProfile reads the YAML profile at path. An empty path or a missing file
// yields the defaults.
func LoadProfile(path string) (*PracticeProfile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultProfile(), nil
		}
		return nil, fmt.Errorf("read practice profile: %w", err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parse practice profile: %w", err)
	}
	profile.Normalize()
	return profile, nil
}
