package config

import (
	"errors"
	"strings"
	"time"

	"github.com/driftlabs/routeflow/internal/common"
)

type LiquidityConfig struct {
	// SourcesPath is the YAML file declaring pools and spot prices.
	// Default: "./config/liquidity.yaml".
	SourcesPath string

	// FeedURLs are optional HTTP price feeds merged into the snapshot,
	// comma-separated.
	FeedURLs []string

	// FeedTimeout bounds each feed fetch during a reload.
	FeedTimeout time.Duration

	// StalenessThreshold is the snapshot age past which the planner triggers
	// a best-effort reload before searching.
	StalenessThreshold time.Duration

	// RefreshInterval drives the background reload loop; 0 disables it.
	RefreshInterval time.Duration
}

func (c *LiquidityConfig) Key() string {
	return LIQUIDITY_CONFIG_KEY
}

func (c *LiquidityConfig) Load() error {
	c.SourcesPath = common.GetEnvOrDefault("LIQUIDITY_SOURCES_PATH", "./config/liquidity.yaml")
	c.FeedURLs = splitList(common.GetEnvOrDefault("LIQUIDITY_FEED_URLS", ""))
	c.FeedTimeout = time.Duration(common.GetEnvOrDefaultInt("LIQUIDITY_FEED_TIMEOUT_MS", 3000)) * time.Millisecond
	c.StalenessThreshold = time.Duration(common.GetEnvOrDefaultInt("LIQUIDITY_STALENESS_SECONDS", 30)) * time.Second
	c.RefreshInterval = time.Duration(common.GetEnvOrDefaultInt("LIQUIDITY_REFRESH_SECONDS", 30)) * time.Second
	return c.Validate()
}

func (c *LiquidityConfig) Validate() error {
	if c.SourcesPath == "" {
		return errors.New("LIQUIDITY_SOURCES_PATH must not be empty")
	}
	if c.FeedTimeout <= 0 {
		return errors.New("LIQUIDITY_FEED_TIMEOUT_MS must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
