package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// annotationNoEnv marks flags that are never read from the environment.
const annotationNoEnv = "flip_no_env"

// bindEnvVars sets unset flags of cmd from FLIP_<FLAG_NAME> environment
// variables, and adds the variable name to each flag's usage. For example,
// "--log-level" is read from FLIP_LOG_LEVEL.
//
// Arguments take precedence over the environment, which takes precedence
// over defaults. Flags marked with [noEnv] are skipped: one-shot actions
// such as --write-config should not be triggered by a stray variable.
func bindEnvVars(cmd *cobra.Command) {
	bind := func(flag *pflag.Flag) {
		if _, skip := flag.Annotations[annotationNoEnv]; skip || flag.Name == "help" {
			return
		}

		bindFlagToEnv(flag)
	}

	cmd.Flags().VisitAll(bind)
	cmd.PersistentFlags().VisitAll(bind)
}

// noEnv excludes the named flags of cmd from [bindEnvVars].
func noEnv(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		err := cmd.Flags().SetAnnotation(name, annotationNoEnv, []string{"true"})
		if err != nil {
			panic(fmt.Errorf("annotate flag %q: %w", name, err))
		}
	}
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// Keep the default rather than failing on a bad variable.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name, e.g.
// "otlp-endpoint" -> "FLIP_OTLP_ENDPOINT".
func flagToEnvName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flagName, "-", "_"))
}
