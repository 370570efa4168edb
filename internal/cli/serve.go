package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"adminql/internal/api"
	"adminql/internal/example"
	"adminql/internal/resolver"
)

type serveOptions struct {
	addr string
	seed bool
}

func NewServeCommand(root *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the metadata, query and GraphQL endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address, overrides the config")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "create and fill the sample tables before serving")
	return cmd
}

func runServe(ctx context.Context, root *RootOptions, opts *serveOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}

	tp, err := newTracerProvider(cfg.Tracing)
	if err != nil {
		return err
	}
	var tracer trace.Tracer
	if tp != nil {
		otel.SetTracerProvider(tp)
		tracer = tp.Tracer("adminql")
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Printf("adminql: tracer shutdown: %v", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	db, err := openDB(cfg, reg, tracer)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err = db.Wait(ctx); err != nil {
		return err
	}
	if opts.seed {
		if err = example.Migrate(ctx, db); err != nil {
			return err
		}
		if err = example.Seed(ctx, db); err != nil {
			return err
		}
	}

	router := api.NewRouter(resolver.New(db, example.Entities()...), reg,
		api.Tracing(tracer),
		api.Metrics(reg, "adminql", "api"),
		api.AccessLog(func(l string) {
			log.Println(l)
		}),
	)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("adminql: shutdown: %v", err)
		}
	}()
	log.Printf("adminql: listening on %s", cfg.Addr)
	if err = srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
