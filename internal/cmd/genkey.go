package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
	"github.com/aosc-dev/p-vector-go/internal/sign"
)

var genKeyCmd = &cobra.Command{
	Use:   "gen-key",
	Short: "Generate a new OpenPGP signing key",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, email, err := sign.AskForKeyInfo(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		cert, err := sign.GenerateCertificate(name, email)
		if err != nil {
			return err
		}

		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		keyDir := filepath.Join(home, "pv-keys")
		if err := os.MkdirAll(keyDir, 0o700); err != nil {
			return pverr.New(pverr.IoError, "sign", err)
		}

		privPath := filepath.Join(keyDir, cert.ID+".key")
		pubPath := filepath.Join(keyDir, cert.ID+".pub")
		if err := os.WriteFile(privPath, cert.PrivKey, 0o600); err != nil {
			return pverr.New(pverr.IoError, "sign", err)
		}
		if err := os.WriteFile(pubPath, cert.PubKey, 0o644); err != nil {
			return pverr.New(pverr.IoError, "sign", err)
		}

		configPath := cfgFile
		if configPath == "" {
			configPath = "~/.config/pvector/config.yaml"
		}

		cmd.Println()
		cmd.Print(sign.Instructions(pubPath, privPath, cert.ExpireAt, configPath))
		return nil
	},
}
