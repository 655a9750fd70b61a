package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/abdidvp/hwaudit/internal/adapters/outbound/cache"
	"github.com/abdidvp/hwaudit/internal/adapters/outbound/config"
	"github.com/abdidvp/hwaudit/internal/adapters/outbound/history"
	"github.com/abdidvp/hwaudit/internal/adapters/outbound/probe"
	"github.com/abdidvp/hwaudit/internal/application"
	"github.com/abdidvp/hwaudit/internal/domain"
)

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) loadConfig() (domain.AuditConfig, error) {
	cfg, err := config.New().Load(o.configPath)
	if err != nil {
		return domain.AuditConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) resolveStateDir() (string, error) {
	if o.stateDir != "" {
		return o.stateDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving state dir: %w", err)
	}
	return filepath.Join(base, "hwaudit"), nil
}

func (o *rootOptions) stores() (*cache.Store, *history.FileHistory, error) {
	dir, err := o.resolveStateDir()
	if err != nil {
		return nil, nil, err
	}
	return cache.New(dir), history.New(dir), nil
}

// resolvePlatform prefers an explicit --platform, then the fallback (a
// replayed fixture's platform), then the running OS.
func resolvePlatform(flag string, fallback domain.Platform) (domain.Platform, error) {
	if flag != "" {
		return domain.ParsePlatform(flag)
	}
	if fallback != "" {
		return fallback, nil
	}
	return domain.DetectPlatform(runtime.GOOS), nil
}

func newAuditService(platform domain.Platform, runner domain.CommandRunner, cfg domain.AuditConfig, logger *slog.Logger) *application.AuditService {
	reg := probe.NewRegistry(runner, nil, probe.SettingsFrom(cfg), logger)
	return application.NewAuditService(platform, reg, probe.NewIdentifier(reg), cfg, logger)
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
