package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/footwear-wholesale/client/admin"
	"github.com/example/footwear-wholesale/client/cart"
	"github.com/example/footwear-wholesale/client/catalogclient"
	"github.com/example/footwear-wholesale/client/localstore"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// session holds the client components shared by every command.
type session struct {
	storage fiber.Storage
	client  *catalogclient.Client
	catalog *catalogclient.Cache
	cart    *cart.Store
	gate    *admin.Gate
}

// close releases the state file lock.
func (s *session) close() error {
	return s.storage.Close()
}

type sessionKey struct{}

func sessionFrom(cmd *cobra.Command) *session {
	return cmd.Context().Value(sessionKey{}).(*session)
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Storefront and admin client for the footwear wholesale API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, cmd); err != nil {
				return err
			}
			s, err := openSession(v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, s))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.shopctl.yaml)")
	flags.String("server", "http://localhost:3000", "storefront API base URL")
	flags.String("state-dir", defaultStateDir(), "directory for the cart and admin session")
	flags.String("admin-secret", "", "admin secret used by 'admin login'")
	flags.Duration("timeout", 15*time.Second, "request timeout")
	for _, name := range []string{"server", "state-dir", "admin-secret", "timeout"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newProductsCmd(),
		newCartCmd(),
		newQuickOrderCmd(),
		newAdminCmd(),
		newUploadCmd(),
	)
	closeSessionAfterRun(root)
	return root
}

// closeSessionAfterRun wraps every RunE so the session opened in
// PersistentPreRunE is closed whether the command succeeds or fails.
func closeSessionAfterRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		closeSessionAfterRun(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s := sessionFrom(cmd)
		err := run(cmd, args)
		if cerr := s.close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close state: %w", cerr)
		}
		return err
	}
}

// loadConfig layers flags over SHOPCTL_* variables over the optional config file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("shopctl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".shopctl")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func openSession(v *viper.Viper) (*session, error) {
	storage, err := localstore.Open(v.GetString("state-dir"))
	if err != nil {
		return nil, err
	}

	c := catalogclient.NewClient(v.GetString("server"), v.GetDuration("timeout"))
	store := cart.New(storage)
	if err := store.Hydrate(); err != nil {
		_ = storage.Close()
		return nil, err
	}

	return &session{
		storage: storage,
		client:  c,
		catalog: catalogclient.NewCache(c),
		cart:    store,
		gate:    admin.NewGate(v.GetString("admin-secret"), storage, admin.DefaultSessionTTL),
	}, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shopctl")
	}
	return ".shopctl"
}
