package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coto-cli/coto/internal/extract"
	"github.com/coto-cli/coto/internal/logging"
	"github.com/coto-cli/coto/internal/prompt"
	"github.com/coto-cli/coto/internal/provider"
	"github.com/coto-cli/coto/internal/resolve"
	"github.com/coto-cli/coto/internal/sink"
	"github.com/coto-cli/coto/pkg/types"
)

type genOptions struct {
	prompt   string
	region   string
	profile  string
	model    string
	output   string
	api      string
	endpoint string
	dryRun   bool
	timeout  time.Duration
}

func newGenCmd(a *app) *cobra.Command {
	var opts genOptions

	cmd := &cobra.Command{
		Use:   "gen [prompt...]",
		Short: "Generate a boto3 snippet from natural language",
		Long: `Generate a runnable boto3 snippet from a natural-language request.

Model, profile and region fall back to the stored defaults ('coto config').
The API key comes from the stored settings or OPENAI_API_KEY.

Examples:
  coto gen "list s3 buckets"
  coto gen -p "stop all ec2 instances tagged env=dev" -r us-west-2 -P ops
  coto gen -o buckets.py "list s3 buckets"
  coto gen --dry-run "list s3 buckets"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.prompt == "" {
				opts.prompt = strings.Join(args, " ")
			}
			return a.runGen(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "Natural-language request")
	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "AWS region (overrides default_region)")
	cmd.Flags().StringVarP(&opts.profile, "profile", "P", "", "AWS CLI profile (overrides default_profile)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", fmt.Sprintf("Model to use (overrides model, default %s)", resolve.DefaultModel))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the snippet to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the request payload without sending it")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", resolve.DefaultTimeout, "Request timeout")
	cmd.Flags().StringVar(&opts.api, "api", "", "Generation API: responses or chat")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Generation API base URL")

	return cmd
}

func (a *app) runGen(ctx context.Context, opts genOptions) error {
	settings, err := a.store().Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	params, err := resolve.Resolve(types.Overrides{
		Prompt:   opts.prompt,
		Model:    opts.model,
		Profile:  opts.profile,
		Region:   opts.region,
		API:      opts.api,
		Endpoint: opts.endpoint,
		Output:   opts.output,
		DryRun:   opts.dryRun,
		Timeout:  opts.timeout,
	}, settings, a.getenv)
	if err != nil {
		return err
	}

	requestID := provider.NewRequestID()
	log := logging.With().Str("request_id", requestID).Logger()
	log.Info().
		Str("model", params.Model).
		Str("profile", params.Profile).
		Str("region", params.Region).
		Str("api", params.API).
		Bool("dry_run", params.DryRun).
		Msg("resolved request")

	payload := prompt.Build(params)

	if params.DryRun {
		out, err := provider.Render(payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.env.Out, out)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	client, err := provider.New(ctx, provider.Config{
		API:        params.API,
		Endpoint:   params.Endpoint,
		Model:      params.Model,
		Credential: params.Credential,
		RequestID:  requestID,
		HTTPClient: a.env.HTTPClient,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	start := time.Now()
	reply, err := client.Send(ctx, payload)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("reply received")

	code, err := extract.Reply(reply)
	if err != nil {
		log.Warn().Err(err).Msg("reply rejected")
		return fmt.Errorf("validate reply: %w", err)
	}

	if err := sink.New(a.env.FS, a.env.Out).Emit(code, params.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
