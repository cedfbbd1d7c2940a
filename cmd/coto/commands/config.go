package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coto-cli/coto/internal/config"
	"github.com/coto-cli/coto/pkg/types"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage coto configuration",
		Long: `Manage the stored coto settings.

Subcommands:
  openai-key       Store the OpenAI API key
  default-profile  Store the default AWS CLI profile
  default-region   Store the default AWS region
  model            Store the default LLM model
  set              Set any settings key
  unset            Remove a settings key
  show             Show current settings
  path             Print the settings file path`,
	}

	cmd.AddCommand(newStoreKeyCmd(a, "openai-key <key>", "Store OpenAI API key", "openai_key", "OpenAI API key"))
	cmd.AddCommand(newStoreKeyCmd(a, "default-profile <profile>", "Store default AWS CLI profile", "default_profile", "Default AWS profile"))
	cmd.AddCommand(newStoreKeyCmd(a, "default-region <region>", "Store default AWS region", "default_region", "Default AWS region"))
	cmd.AddCommand(newStoreKeyCmd(a, "model <model>", "Store default LLM model (e.g. o4-mini)", "model", "Default LLM model"))
	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigUnsetCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))

	return cmd
}

func newStoreKeyCmd(a *app, use, short, keyName, label string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.updateSetting(keyName, args[0]); err != nil {
				return err
			}
			success(a.env.Out, "%s stored.", label)
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (" + strings.Join(config.KeyNames(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.updateSetting(args[0], args[1]); err != nil {
				return err
			}
			key, _ := config.LookupKey(args[0])
			success(a.env.Out, "%s stored.", key.Description)
			return nil
		},
	}
}

func newConfigUnsetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a config key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := config.LookupKey(args[0])
			if err != nil {
				return err
			}
			store := a.store()
			settings, err := store.Load()
			if err != nil {
				return err
			}
			key.Unset(&settings)
			if err := store.Save(settings); err != nil {
				return err
			}
			success(a.env.Out, "%s removed.", key.Description)
			return nil
		},
	}
}

// updateSetting loads the whole record, changes one field and saves it back.
func (a *app) updateSetting(name, value string) error {
	key, err := config.LookupKey(name)
	if err != nil {
		return err
	}

	store := a.store()
	settings, err := store.Load()
	if err != nil {
		return err
	}
	if err := key.Set(&settings, value); err != nil {
		return err
	}
	return store.Save(settings)
}

func newConfigShowCmd(a *app) *cobra.Command {
	var (
		format      string
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			settings, err := store.Load()
			if err != nil {
				return err
			}
			if !showSecrets {
				settings = config.Masked(settings)
			}

			out, err := renderSettings(settings, format)
			if err != nil {
				return err
			}
			if settings.IsZero() && format == "toml" {
				out = fmt.Sprintf("# no settings stored in %s\n", store.Path())
			}
			fmt.Fprint(a.env.Out, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Output format (toml|json|yaml)")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Show the API key unmasked")

	return cmd
}

func renderSettings(settings types.Settings, format string) (string, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "toml":
		if err := config.Encode(&buf, settings); err != nil {
			return "", err
		}
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(settings); err != nil {
			return "", err
		}
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(settings); err != nil {
			return "", err
		}
		enc.Close()
	default:
		return "", fmt.Errorf("unknown format %q (expected toml, json or yaml)", format)
	}
	return buf.String(), nil
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.env.Out, a.store().Path())
			return nil
		},
	}
}
