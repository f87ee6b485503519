package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
	"github.com/osvaldoandrade/w3bstitch/internal/platform"
)

const defaultEnvFile = ".env"

var errInvalidInput = errors.New("invalid input")

type RootOptions struct {
	JSONOutput           bool
	LogLevel             string
	LogFormat            string
	EnvFile              string
	RPCTimeout           time.Duration
	GasLimit             uint64
	StrictL1             bool
	SerializeSubmissions bool
	ReceiptsDB           string
	CredentialSchema     string

	// Read from the environment only.
	Chains         domain.ChainConfig
	TwitterToken   string
	TwitterBaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{
		LogLevel:   "info",
		LogFormat:  "text",
		RPCTimeout: anchor.DefaultRequestTimeout,
		GasLimit:   domain.DefaultGasLimit,
	}
	cmd := &cobra.Command{
		Use:           "w3bstitch",
		Short:         "W3b Stitch state anchoring and integration API",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFile(opts.EnvFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			if err := opts.applyEnv(cmd.Flags()); err != nil {
				return err
			}
			if _, err := platform.ConfigureLogger(opts.LogLevel, opts.LogFormat, cmd.ErrOrStderr()); err != nil {
				return fmt.Errorf("%w: %v", errInvalidInput, err)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.JSONOutput, "json", false, "Emit JSON output")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error) [W3B_LOG_LEVEL]")
	flags.StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format (text, json) [W3B_LOG_FORMAT]")
	flags.StringVar(&opts.EnvFile, "env-file", defaultEnvFile, "Dotenv file to load; existing environment variables win")
	flags.DurationVar(&opts.RPCTimeout, "rpc-timeout", opts.RPCTimeout, "Timeout for each outbound JSON-RPC call [W3B_RPC_TIMEOUT]")
	flags.Uint64Var(&opts.GasLimit, "gas-limit", opts.GasLimit, "Gas limit of anchor transactions [W3B_GAS_LIMIT]")
	flags.BoolVar(&opts.StrictL1, "strict-l1", false, "Fail L1 anchors when L1_RPC_URL is unset instead of using L2 [W3B_STRICT_L1]")
	flags.BoolVar(&opts.SerializeSubmissions, "serialize-submissions", false, "Serialize submissions per endpoint and address [W3B_SERIALIZE_SUBMISSIONS]")
	flags.StringVar(&opts.ReceiptsDB, "receipts-db", "", "SQLite path of the anchor receipt journal; empty disables it [W3B_RECEIPTS_DB]")
	flags.StringVar(&opts.CredentialSchema, "credential-schema", "", "JSON Schema file replacing the built-in credential request schema [W3B_CREDENTIAL_SCHEMA]")

	cmd.AddCommand(
		newServeCmd(opts),
		newHashCmd(opts),
		newAnchorCmd(opts),
		newInspectCmd(opts),
		newReceiptsCmd(opts),
		newCredentialCmd(opts),
	)

	return cmd
}

// loadEnvFile loads a dotenv file without overriding variables that are
// already set. The default file is optional; an explicit one must exist.
func loadEnvFile(path string, explicit bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (o *RootOptions) applyEnv(flags *pflag.FlagSet) error {
	envString(flags, "log-level", "W3B_LOG_LEVEL", &o.LogLevel)
	envString(flags, "log-format", "W3B_LOG_FORMAT", &o.LogFormat)
	envString(flags, "receipts-db", "W3B_RECEIPTS_DB", &o.ReceiptsDB)
	envString(flags, "credential-schema", "W3B_CREDENTIAL_SCHEMA", &o.CredentialSchema)
	if err := envBool(flags, "strict-l1", "W3B_STRICT_L1", &o.StrictL1); err != nil {
		return err
	}
	if err := envBool(flags, "serialize-submissions", "W3B_SERIALIZE_SUBMISSIONS", &o.SerializeSubmissions); err != nil {
		return err
	}
	if value := envValue("W3B_RPC_TIMEOUT"); value != "" && !flags.Changed("rpc-timeout") {
		parsed, err := time.ParseDuration(value)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("%w: W3B_RPC_TIMEOUT=%q is not a positive duration", errInvalidInput, value)
		}
		o.RPCTimeout = parsed
	}
	if value := envValue("W3B_GAS_LIMIT"); value != "" && !flags.Changed("gas-limit") {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: W3B_GAS_LIMIT=%q is not an integer", errInvalidInput, value)
		}
		o.GasLimit = parsed
	}
	if o.RPCTimeout <= 0 {
		return fmt.Errorf("%w: rpc timeout must be positive", errInvalidInput)
	}
	if floor := anchor.IntrinsicGas(nil); o.GasLimit < floor {
		return fmt.Errorf("%w: gas limit must be at least %d", errInvalidInput, floor)
	}

	o.Chains = domain.ChainConfig{
		L2RPCURL: envValue("L2_RPC_URL"),
		L1RPCURL: envValue("L1_RPC_URL"),
		StrictL1: o.StrictL1,
		Identity: domain.SigningIdentity{
			Address:    envValue("ACCOUNT_ADDRESS"),
			PrivateKey: envValue("PRIVATE_KEY"),
		},
	}
	o.TwitterToken = envValue("TWITTER_BEARER_TOKEN")
	o.TwitterBaseURL = envValue("W3B_TWITTER_BASE_URL")
	return nil
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envString(flags *pflag.FlagSet, flag, key string, target *string) {
	if flags.Changed(flag) {
		return
	}
	if value := envValue(key); value != "" {
		*target = value
	}
}

func envBool(flags *pflag.FlagSet, flag, key string, target *bool) error {
	if flags.Changed(flag) {
		return nil
	}
	value := envValue(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", errInvalidInput, key, value)
	}
	*target = parsed
	return nil
}
