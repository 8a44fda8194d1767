// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/store-ratings/internal/auth"
)

const (
	defaultPrivateKeyPath = "keys/private.pem"
	defaultPublicKeyPath  = "keys/public.pem"
)

// keygen does not load config so it can run before DATABASE_URL and
// REDIS_URL exist.
func newKeygenCommand() *cobra.Command {
	var (
		privatePath string
		publicPath  string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair used to sign access tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				for _, p := range []string{privatePath, publicPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s exists; pass --force to overwrite", p)
					}
				}
			}

			for _, p := range []string{privatePath, publicPath} {
				if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
					return fmt.Errorf("create key dir: %w", err)
				}
			}

			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", defaultPrivateKeyPath, "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", defaultPublicKeyPath, "public key output path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing keys")

	return cmd
}
