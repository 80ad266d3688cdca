package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cgmis/internal/auth"
	"cgmis/internal/config"
	"cgmis/internal/identity"
	"cgmis/internal/localstore"
	"cgmis/internal/logging"
	"cgmis/internal/session"
)

// app carries what every subcommand needs once the root has parsed its flags.
type app struct {
	configPath string
	verbose    bool

	cfg      config.App
	log      *zap.Logger
	sessions *session.Manager
	closers  []func() error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cgmis",
		Short: "Career guidance MIS command line",
		Long: `cgmis signs you in, keeps the session in local storage and browses
student and counseling-session records, either locally or through the API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CGMIS_CONFIG"), "YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.studentsCmd(),
		a.sessionsCmd(),
		a.statsCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env, a.verbose)
	if err != nil {
		return err
	}
	if !a.verbose {
		// Keep command output readable; warnings still surface.
		log = log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}
	a.cfg, a.log = cfg, log

	storage, closeStorage, err := localstore.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	a.closers = append(a.closers, closeStorage)

	var tokens session.TokenIssuer = session.RandomTokens{}
	if cfg.JWTSigningKey != "" {
		tokens = auth.NewIssuer(cfg.JWTIssuer, cfg.JWTSigningKey)
	}
	a.sessions = session.NewManager(storage, identity.DefaultRegistry(time.Now()), tokens,
		session.WithKey(cfg.StorageKey),
		session.WithTTL(cfg.SessionTTL),
		session.WithUnknownEmails(cfg.AllowUnknownEmails),
		session.WithLogger(log),
	)
	return nil
}

// close releases what setup and the commands opened. Cobra skips post-run
// hooks when a command fails, so callers defer it instead.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
