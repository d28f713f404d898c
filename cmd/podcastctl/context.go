package main

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"

	"gaddiyalibe/internal/app"
	"gaddiyalibe/internal/config"
	"gaddiyalibe/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type commandContext struct {
	envFlag      *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	appOnce sync.Once
	app     *app.App
	appErr  error
	logger  *zap.Logger
}

func newCommandContext(envFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		envFlag:      envFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if c.envFlag != nil {
			if path := strings.TrimSpace(*c.envFlag); path != "" {
				if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
					c.configErr = err
					return
				}
			}
		}
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.LogLevel = *c.logLevelFlag
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureApp connects the store on first use.
func (c *commandContext) ensureApp(ctx context.Context) (*app.App, error) {
	c.appOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.appErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:            cfg.LogLevel,
			Format:           cfg.LogFormat,
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		})
		if err != nil {
			c.appErr = err
			return
		}
		c.logger = logger
		c.app, c.appErr = app.New(ctx, cfg, logger)
	})
	return c.app, c.appErr
}

func (c *commandContext) close() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}
