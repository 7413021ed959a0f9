package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8085
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kaiseki/data/history.db"
	}
	if cfg.Analyzer.MaxRelated == 0 {
		cfg.Analyzer.MaxRelated = 3
	}
	if cfg.Analyzer.Spell.MaxDistance == 0 {
		cfg.Analyzer.Spell.MaxDistance = 2
	}
	if cfg.Analyzer.Spell.MinFrequency == 0 {
		cfg.Analyzer.Spell.MinFrequency = 1
	}
}
