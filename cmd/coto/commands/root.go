// Package commands provides the CLI commands for coto.
package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coto-cli/coto/internal/config"
	"github.com/coto-cli/coto/internal/logging"
	"github.com/coto-cli/coto/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Env is everything the commands touch outside the process.
type Env struct {
	FS         afero.Fs
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	Getenv     func(string) string
	HTTPClient *http.Client
}

// DefaultEnv returns the real process environment.
func DefaultEnv() Env {
	return Env{
		FS:         afero.NewOsFs(),
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
		Getenv:     os.Getenv,
		HTTPClient: http.DefaultClient,
	}
}

// app carries the environment and global flag values to subcommands.
type app struct {
	env Env

	printLogs bool
	logLevel  string
	logFile   bool
	envFile   string

	dotenv map[string]string
}

// getenv reads the process environment, falling back to the --env-file values.
func (a *app) getenv(key string) string {
	if v := a.env.Getenv(key); v != "" {
		return v
	}
	return a.dotenv[key]
}

func (a *app) paths() *config.Paths {
	return config.PathsFrom(a.getenv)
}

func (a *app) store() *config.Store {
	return config.NewStore(a.env.FS, a.paths().SettingsPath())
}

// NewRootCmd builds the command tree bound to env.
func NewRootCmd(env Env) *cobra.Command {
	a := &app{env: env}

	rootCmd := &cobra.Command{
		Use:   "coto",
		Short: "coto - natural language to boto3 snippets",
		Long: `coto turns a natural-language request into a runnable Python snippet
using the AWS SDK (boto3), by asking an OpenAI model for a strict
{"code": "..."} reply.

Run 'coto setup' once to store your API key and defaults, then
'coto gen "list s3 buckets"'.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.SetIn(env.In)
	rootCmd.SetOut(env.Out)
	rootCmd.SetErr(env.Err)

	rootCmd.PersistentFlags().BoolVar(&a.printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&a.logFile, "log-file", false, "Also write logs to the coto state directory")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load environment variables from a dotenv file")

	rootCmd.SetVersionTemplate(fmt.Sprintf("coto %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(newGenCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newSetupCmd(a))

	return rootCmd
}

func (a *app) init() error {
	if a.envFile != "" {
		values, err := godotenv.Read(a.envFile)
		if err != nil {
			return fmt.Errorf("failed to load env file %s: %w", a.envFile, err)
		}
		a.dotenv = values
	}

	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(a.logLevel)
	cfg.Output = io.Discard
	if a.printLogs {
		cfg.Output = a.env.Err
		cfg.Pretty = true
	}
	if a.logFile {
		cfg.LogToFile = true
		cfg.LogDir = a.paths().LogDir()
	}
	logging.Init(cfg)
	return nil
}

// Execute runs the root command against the process environment.
func Execute() error {
	defer logging.Close()
	return NewRootCmd(DefaultEnv()).Execute()
}

// PrintError writes err and, when its kind has one, a remediation hint.
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
	if hint := types.KindOf(err).Hint(); hint != "" {
		color.New(color.FgHiBlack).Fprintf(w, "hint: %s\n", hint)
	}
}

func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✅ "+format+"\n", args...)
}
