package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/code-token-cli/pkg/cli"
	"github.com/code-payments/code-token-cli/pkg/keypair"
	"github.com/code-payments/code-token-cli/pkg/metrics"
	"github.com/code-payments/code-token-cli/pkg/pointer"
	"github.com/code-payments/code-token-cli/pkg/rate"
	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/tokenops"
)

const appName = "token-cli"

type globalFlags struct {
	configPath       string
	keypairPath      string
	url              string
	commitment       string
	verbose          bool
	dryRun           bool
	computeUnitPrice uint64
	computeUnitLimit uint64
	skipValidation   bool

	requestsPerSecond float64
	memo              string
}

// session holds everything a subcommand needs. It is built once per
// invocation and passed explicitly.
type session struct {
	config   *cli.Config
	payer    *solana.KeypairSigner
	pipeline *tokenops.Pipeline
	dryRun   bool
	memo     string

	log   *logrus.Entry
	ctx   context.Context
	close func()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Administer fungible SPL tokens with Metaplex metadata",
		Long:          "Create, mint, transfer, freeze and update SPL tokens with Metaplex metadata, and deposit bridge liquidity.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "C", cli.DefaultConfigPath(), "Configuration file to use")
	pf.StringVar(&flags.keypairPath, "keypair", "", "Filepath to a keypair [default: client keypair]")
	pf.StringVarP(&flags.url, "url", "u", "", "JSON RPC URL or moniker for the cluster [default: value from configuration file]")
	pf.StringVar(&flags.commitment, "commitment", "", "Commitment level for the blockhash and submission [default: value from configuration file]")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Show additional information")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Build and sign the transaction without submitting it")
	pf.Uint64Var(&flags.computeUnitPrice, "compute-unit-price", 0, "Priority fee in micro-lamports per compute unit")
	pf.Uint64Var(&flags.computeUnitLimit, "compute-unit-limit", 0, "Compute unit limit of the transaction")
	pf.StringVar(&flags.memo, "memo", "", "Attach a memo, signed by the authority, to the transaction")
	pf.Float64Var(&flags.requestsPerSecond, "rpc-requests-per-second", 0, "Pace JSON RPC requests per method [default: unlimited]")
	pf.BoolVar(&flags.skipValidation, "skip-metadata-validation", false, "Let the metadata program validate name, symbol and uri lengths")

	root.AddCommand(
		newCreateTokenCmd(flags),
		newMintToCmd(flags),
		newTransferToCmd(flags),
		newFreezeCmd(flags, true),
		newFreezeCmd(flags, false),
		newUpdateMetadataCmd(flags),
		newUpdateAuthorityCmd(flags),
		newAddLiquidityCmd(flags),
		newShowTokenCmd(flags),
	)

	return root
}

func openSession(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	config, err := cli.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	if len(flags.url) > 0 {
		config.JsonRpcUrl = solana.EndpointFromMoniker(flags.url)
		config.WebsocketUrl = cli.WebsocketURL(config.JsonRpcUrl)
	}
	if len(flags.keypairPath) > 0 {
		config.KeypairPath = flags.keypairPath
	}
	if len(flags.commitment) > 0 {
		config.Commitment = flags.commitment
	}
	if _, err := solana.CommitmentFromString(config.Commitment); err != nil {
		return nil, err
	}

	app, err := configureLogging(config, flags.verbose)
	if err != nil {
		return nil, err
	}

	if flags.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "JSON RPC URL: %s\n", config.JsonRpcUrl)
		fmt.Fprintf(cmd.ErrOrStderr(), "Websocket URL: %s\n", config.WebsocketUrl)
	}

	key, err := keypair.Load(config.KeypairPath)
	if err != nil {
		return nil, err
	}
	payer, err := solana.NewKeypairSigner(key)
	if err != nil {
		return nil, err
	}

	overrides := &tokenops.Overrides{
		ComputeUnitPrice:        pointer.IfValid(cmd.Flags().Changed("compute-unit-price"), flags.computeUnitPrice),
		ComputeUnitLimit:        pointer.IfValid(cmd.Flags().Changed("compute-unit-limit"), flags.computeUnitLimit),
		SubmitCommitment:        pointer.To(config.Commitment),
		ValidateMetadataLengths: pointer.IfValid(flags.skipValidation, false),
	}

	opts := []solana.Option{solana.WithTimeout(30 * time.Second)}
	if flags.requestsPerSecond > 0 {
		opts = append(opts, solana.WithRateLimiter(rate.NewLocalRateLimiter(xrate.Limit(flags.requestsPerSecond), 1)))
	}
	sc := solana.New(config.JsonRpcUrl, opts...)

	invocation := uuid.New().String()
	ctx, endTxn := metrics.NewContext(cmd.Context(), app, appName+" "+cmd.Name())
	newrelic.FromContext(ctx).AddAttribute("invocation", invocation)

	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type":       "cmd/token-cli",
		"command":    cmd.Name(),
		"invocation": invocation,
		"payer":      base58.Encode(payer.PublicKey()),
	})
	log.Debug("session opened")

	return &session{
		log:      log,
		config:   config,
		payer:    payer,
		pipeline: tokenops.NewPipeline(sc, tokenops.WithOverrides(overrides)),
		dryRun:   flags.dryRun,
		memo:     flags.memo,
		ctx:      ctx,
		close: func() {
			endTxn()
			if app != nil {
				app.Shutdown(5 * time.Second)
			}
		},
	}, nil
}

func configureLogging(config *cli.Config, verbose bool) (*newrelic.Application, error) {
	logrus.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
		level = logrus.WarnLevel
	}
	if verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if len(config.NewRelicLicenseKey) == 0 {
		logrus.SetFormatter(&logrus.TextFormatter{})
		return nil, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigFromEnvironment(),
		newrelic.ConfigAppName(appName),
		newrelic.ConfigLicense(config.NewRelicLicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to new relic")
	}

	logrus.SetFormatter(metrics.NewNewRelicLogFormatter(app, &logrus.TextFormatter{}))
	return app, nil
}

// run executes op, or only prepares it on a dry run, and prints the result.
func (s *session) run(cmd *cobra.Command, op tokenops.Operation, extra ...solana.Signer) error {
	s.log.WithFields(logrus.Fields{
		"operation": op.Kind(),
		"dry_run":   s.dryRun,
		"memo":      len(s.memo) > 0,
	}).Debug("running operation")

	if len(s.memo) > 0 {
		return s.runWithMemo(cmd, op, extra...)
	}

	if s.dryRun {
		txn, err := s.pipeline.Prepare(s.ctx, op, s.payer, extra...)
		if err != nil {
			return err
		}
		return printTransaction(cmd, txn)
	}

	sig, err := s.pipeline.Execute(s.ctx, op, s.payer, extra...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signature: %s\n", sig)
	return nil
}

func (s *session) runWithMemo(cmd *cobra.Command, op tokenops.Operation, extra ...solana.Signer) error {
	instructions, err := s.pipeline.Build(s.ctx, op, s.memo)
	if err != nil {
		return err
	}

	if s.dryRun {
		txn, err := s.pipeline.PrepareInstructions(s.ctx, instructions, s.payer, extra...)
		if err != nil {
			return err
		}
		return printTransaction(cmd, txn)
	}

	sig, err := s.pipeline.Submit(s.ctx, instructions, s.payer, extra...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signature: %s\n", sig)
	return nil
}

func printTransaction(cmd *cobra.Command, txn *solana.Transaction) error {
	fmt.Fprintln(cmd.OutOrStdout(), txn.String())
	fmt.Fprintln(cmd.OutOrStdout(), "Decoded instructions:")
	for _, line := range tokenops.Describe(txn) {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", line)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transaction: %s\n", encodeTransaction(txn))
	fmt.Fprintf(cmd.OutOrStdout(), "Signature: %s\n", txn.Signature())
	return nil
}
