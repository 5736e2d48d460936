package main

import (
	"context"
	"fmt"
	"os"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/container"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/ui"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "qkart",
		Short:         "QKart storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			opts.cfg = cfg

			level := cfg.Log.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			parsed, err := log.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", level, err)
			}
			log.SetLevel(parsed)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		&cobra.Command{
			Use:   "browse",
			Short: "Open the interactive product list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBrowse(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "products",
			Short: "List the full catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runListing(cmd.Context(), opts, "")
			},
		},
		&cobra.Command{
			Use:   "search TEXT",
			Short: "Search the catalog",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runListing(cmd.Context(), opts, args[0])
			},
		},
		&cobra.Command{
			Use:   "cart",
			Short: "Show the cart of the logged-in shopper",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCart(cmd.Context(), opts, "")
			},
		},
		&cobra.Command{
			Use:   "add PRODUCT_ID",
			Short: "Add a product to the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCart(cmd.Context(), opts, args[0])
			},
		},
		newLoginCommand(opts),
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withContainer(cmd.Context(), opts, func(app *container.Container) error {
					if err := app.SessionStore.Clear(cmd.Context()); err != nil {
						return err
					}
					log.Info("👋 Logged out")
					return nil
				})
			},
		},
	)

	return root
}

func newLoginCommand(opts *options) *cobra.Command {
	var username, token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a username and bearer token issued by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), opts, func(app *container.Container) error {
				sess := domain.Session{Username: username, Token: token}
				if err := app.SessionStore.Save(cmd.Context(), sess); err != nil {
					return err
				}
				log.Infof("👤 Session stored for %s", username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "shopper username")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func withContainer(ctx context.Context, opts *options, fn func(app *container.Container) error) error {
	app, err := container.New(ctx, opts.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	return fn(app)
}

func runBrowse(ctx context.Context, opts *options) error {
	// The terminal belongs to the UI; logs go to a file.
	logFile, err := os.OpenFile(opts.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	return withContainer(ctx, opts, func(app *container.Container) error {
		return app.Run(ctx)
	})
}

func runListing(ctx context.Context, opts *options, query string) error {
	return withContainer(ctx, opts, func(app *container.Container) error {
		if err := app.Storefront.Mount(ctx, query); err != nil {
			return err
		}
		defer app.Storefront.Unmount()

		fmt.Println(ui.RenderCatalog(app.Storefront.Snapshot(), ui.DefaultStyles(), -1))
		return nil
	})
}

func runCart(ctx context.Context, opts *options, addProductID string) error {
	return withContainer(ctx, opts, func(app *container.Container) error {
		if err := app.Storefront.Mount(ctx, ""); err != nil {
			return err
		}
		defer app.Storefront.Unmount()

		if addProductID != "" {
			_ = app.Storefront.AddToCart(ctx, addProductID)
		}

		view := app.Storefront.Snapshot()
		if !view.LoggedIn {
			fmt.Println("Not logged in. Run `qkart login` first.")
			return nil
		}
		fmt.Println(ui.RenderCart(view, ui.DefaultStyles(), -1))
		return nil
	})
}
