package main

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"animelens/internal/anilist"
	"animelens/internal/config"
	"animelens/internal/logging"
	"animelens/internal/trace"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func newSearchClient(cfg *config.Config) (*trace.Client, error) {
	return trace.New(
		cfg.Trace.BaseURL,
		trace.WithAPIKey(cfg.Trace.APIKey),
		trace.WithCutBorders(cfg.Trace.CutBorders),
		trace.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Trace.RequestTimeout) * time.Second}),
	)
}

func newCatalogClient(cfg *config.Config) (*anilist.Client, error) {
	return anilist.New(
		cfg.AniList.BaseURL,
		anilist.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.AniList.RequestTimeout) * time.Second}),
	)
}
