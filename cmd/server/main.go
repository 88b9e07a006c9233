package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/shiftrightonce/url-shortener/internal/container"
	"github.com/shiftrightonce/url-shortener/internal/credential"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const commandTimeout = 30 * time.Second

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.PostgresPackage(injector)
	container.RedisPackage(injector)
	container.RepositoryPackage(injector)
	container.ServicePackage(injector)
	container.HTTPPackage(injector)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		registerPackages(injector, options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			janitor := do.MustInvoke[*shortener.Janitor](injector)
			if err := janitor.Start(context.Background()); err != nil {
				logger.Fatal("janitor failed to start", zap.Error(err))
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting", zap.Int("port", options.Port))

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Root().Use = "url-shortener"
	cli.Root().AddCommand(tokenCommand(), pruneCommand())

	cli.Run()
}

// tokenCommand issues a credential for a domain and prints the composite
// bearer token. The token is shown exactly once.
func tokenCommand() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API credential and print its bearer token",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			injector := do.New()
			registerPackages(injector, options)

			defer shutdownQuietly(injector)

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if domain == "" {
				domain = options.DefaultDomain
			}

			cred, err := do.MustInvoke[*credential.Service](injector).Issue(ctx, domain)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not create token for domain %s: %v\n", domain, err)
				os.Exit(1)
			}

			fmt.Printf("Token: %s\n", cred.Token())
		}),
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "redirect domain the credential mints links under")

	return cmd
}

// pruneCommand runs a one-shot sweep of expired links.
func pruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired links",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			injector := do.New()
			registerPackages(injector, options)

			defer shutdownQuietly(injector)

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			count, err := do.MustInvoke[*shortener.Service](injector).Prune(ctx, time.Now())
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not prune expired links: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("Pruned %d expired link(s)\n", count)
		}),
	}
}

func shutdownQuietly(injector *do.Injector) {
	if err := injector.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}
}
