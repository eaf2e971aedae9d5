package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/agendaq/agendaq_backend/pkg/paseto"
)

// NewKeygenCommand generates fresh PASETO key material in the hex form
// the config file expects.
func NewKeygenCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate PASETO keys for the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var keys pasetotoken.Keys
			switch pasetotoken.Mode(mode) {
			case pasetotoken.ModeLocal:
				keys = pasetotoken.NewLocalKeys()
			case pasetotoken.ModePublic:
				keys = pasetotoken.NewPublicKeys()
			default:
				return fmt.Errorf("unknown mode %q (use local|public)", mode)
			}

			hex := keys.ExportHex()
			fmt.Printf("mode: %s\n", hex.Mode)
			if hex.SymmetricHex != "" {
				fmt.Printf("local_key_hex: %s\n", hex.SymmetricHex)
			}
			if hex.SecretHex != "" {
				fmt.Printf("secret_key_hex: %s\n", hex.SecretHex)
			}
			if hex.PublicHex != "" {
				fmt.Printf("public_key_hex: %s\n", hex.PublicHex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "local", "key mode to generate (local|public)")

	return cmd
}
