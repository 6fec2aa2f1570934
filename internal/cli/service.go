package cli

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/viper"

	"linkie-web/internal/app"
	"linkie-web/internal/types"
)

// serviceConfig reads the persistent flags through viper so config file
// and LINKIE_* environment values apply when a flag is not set.
func serviceConfig() app.Config {
	return app.Config{
		CatalogPath:      viper.GetString("catalog"),
		DepsDir:          viper.GetString("deps_dir"),
		DepsURL:          viper.GetString("deps_url"),
		LicensesPath:     viper.GetString("licenses"),
		VersionScheme:    types.VersionScheme(strings.ToLower(viper.GetString("version_scheme"))),
		HTTPTimeoutSec:   viper.GetInt("http_timeout_sec"),
		HTTPRetries:      viper.GetInt("http_retries"),
		HTTPRetryDelayMs: viper.GetInt("http_retry_delay_ms"),
	}
}

func newAppService(ctx context.Context) (*app.Service, error) {
	return app.NewService(ctx, serviceConfig())
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
