package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PrayerPraise/initializers"
	"github.com/PrayerPraise/services"
)

const shutdownTimeout = 5 * time.Second

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prayerpraise",
		Short:         "A personal prayer and praise journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			initializers.LoadEnv()
			if err := initializers.InitLogger(verbose); err != nil {
				return err
			}
			return initializers.ConnectStore(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			initializers.CloseDB()
			_ = initializers.Logger.Sync()
		},
		RunE: runServe,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the reminder scheduler",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newExportCmd(),
		newImportCmd(),
		newResetCmd(),
		newRemindersCmd(),
		newHashPassphraseCmd(),
	)
	return root
}

func newCalendar() services.Calendar {
	return services.NewCalendar(initializers.Location, initializers.Logger.Named("calendar"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := initializers.Logger
	calendar := newCalendar()

	services.InitEmailService(initializers.Config.ResendAPIKey, initializers.Config.EmailFrom, calendar, logger.Named("email"))
	var summaries services.SummarySender
	if emailService := services.GetEmailService(); emailService != nil {
		summaries = emailService
	}

	scheduler := services.NewReminderScheduler(
		initializers.Collections,
		calendar,
		services.LogNotifier{Logger: logger.Named("reminders")},
		summaries,
		logger.Named("scheduler"),
	)
	services.InitReminderScheduler(scheduler)

	if initializers.Config.Locked() && initializers.Config.AppSecret == "" {
		return errors.New("APP_SECRET is required when APP_PASSPHRASE_HASH is set")
	}

	srv := &http.Server{
		Addr: initializers.Config.Host + ":" + initializers.Config.Port,
		Handler: cors.Handler(cors.Options{
			AllowedOrigins:   initializers.Config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		})(SetupRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		initializers.Logger.Error("command failed", zap.Error(err))
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
