package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
	"go.uber.org/zap"
)

// Policy is the catalog policy read from a json5 file. A sibling
// "<name>.local.<ext>" file overrides any field it sets.
type Policy struct {
	InStockTokens    []string `json:"in_stock_tokens"`
	OutOfStockTokens []string `json:"out_of_stock_tokens"`
	Categories       []string `json:"categories"`
}

// DefaultPolicy is used for anything the policy file leaves unset
func DefaultPolicy() Policy {
	return Policy{
		InStockTokens: []string{"RESFRIADO", "CONGELADO"},
		Categories: []string{
			"Azeite", "Bovinos", "Bovinos Premium", "Cordeiros", "Empanados", "Vegetais",
			"Jerked Beef", "Pescados", "Suínos", "Combos", "Promoções",
		},
	}
}

// LoadPolicy reads the policy file at name and its local override.
// Missing files fall back to DefaultPolicy.
func LoadPolicy(name string) (Policy, error) {
	policy := DefaultPolicy()
	if name == "" {
		return policy, nil
	}

	read, err := readJSON5(name)
	if errors.Is(err, os.ErrNotExist) {
		zap.L().Info("No catalog policy file found, using defaults", zap.String("file", name))
		return policy, nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read catalog policy: %w", err)
	}

	if err := mergo.Merge(&policy, read, mergo.WithOverride); err != nil {
		return Policy{}, fmt.Errorf("failed to merge catalog policy: %w", err)
	}
	return policy, nil
}

func readJSON5(name string) (Policy, error) {
	var out Policy
	found := false

	data, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		found = true
	}

	local := localName(name)
	data, err = os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		var override Policy
		if err := json5.Unmarshal(data, &override); err != nil {
			return out, fmt.Errorf("%s: %w", local, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		zap.L().Info("Merged catalog policy with local overrides", zap.String("local", local))
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// localName maps "dir/catalog.json5" to "dir/catalog.local.json5"
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}
