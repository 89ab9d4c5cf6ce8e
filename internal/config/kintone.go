package config

import "fmt"

// KintoneConfig points at the business database apps that mirror the board.
type KintoneConfig struct {
	Subdomain string
	AppID     int
	APIToken  string
	// Sticky notes and shapes may live in their own app.
	MemoAppID    int
	MemoAPIToken string
	// TimeoutSec bounds a single request.
	TimeoutSec  int
	Concurrency int
}

// LoadKintoneConfig reads KINTONE_* variables. ok is false when no
// subdomain is configured; sync commands are then unavailable.
func LoadKintoneConfig() (cfg *KintoneConfig, ok bool, err error) {
	cfg = &KintoneConfig{
		Subdomain:    getEnv("KINTONE_SUBDOMAIN", ""),
		AppID:        getEnvInt("KINTONE_APP_ID", 506),
		APIToken:     getEnv("KINTONE_API_TOKEN", ""),
		MemoAppID:    getEnvInt("KINTONE_MEMO_APP_ID", 0),
		MemoAPIToken: getEnv("KINTONE_MEMO_API_TOKEN", ""),
		TimeoutSec:   getEnvInt("KINTONE_TIMEOUT_SEC", 30),
		Concurrency:  getEnvInt("KINTONE_CONCURRENCY", 4),
	}
	if cfg.Subdomain == "" {
		return cfg, false, nil
	}
	if cfg.AppID <= 0 || cfg.APIToken == "" {
		return nil, false, fmt.Errorf("invalid kintone config: app id and api token are required")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg, true, nil
}

// MemoCredentials returns the app used for annotations, falling back to the
// schedule app.
func (c KintoneConfig) MemoCredentials() (int, string) {
	appID, token := c.AppID, c.APIToken
	if c.MemoAppID > 0 {
		appID = c.MemoAppID
	}
	if c.MemoAPIToken != "" {
		token = c.MemoAPIToken
	}
	return appID, token
}
