package common

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Load builds the effective config for one subcommand: env vars with the
// BA_ prefix, then an optional config file, then the named section of
// that file when present.
func Load(cfgFile, section string) (*viper.Viper, error) {
	v := viper.GetViper()
	v.SetEnvPrefix("BA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Printf("[config] using %s", v.ConfigFileUsed())
		if section != "" {
			if sub := v.Sub(section); sub != nil {
				v = sub
			}
		}
	}
	return v, nil
}

// mergeMaps recursively merges b into a.
func mergeMaps(a, b map[string]any) map[string]any {
	for k, vb := range b {
		if ma, ok := a[k].(map[string]any); ok {
			if mb, ok2 := vb.(map[string]any); ok2 {
				a[k] = mergeMaps(ma, mb)
				continue
			}
		}
		a[k] = vb
	}
	return a
}

// ApplyProfile overlays profiles.<name> over the base settings if present.
func ApplyProfile(v *viper.Viper, profile string) (*viper.Viper, error) {
	if profile == "" {
		return v, nil
	}
	prof := v.Sub("profiles")
	if prof == nil {
		return nil, fmt.Errorf("profiles not found in config")
	}
	p := prof.Sub(profile)
	if p == nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	merged := mergeMaps(v.AllSettings(), p.AllSettings())
	nv := viper.New()
	nv.MergeConfigMap(merged)
	return nv, nil
}
