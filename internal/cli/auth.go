package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewAuthCommand prints credentials for the auth section of the server
// configuration.
func NewAuthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Create password hashes and machine tokens",
	}
	cmd.AddCommand(newHashPasswordCommand(rootOpts))
	cmd.AddCommand(newMachineTokenCommand(rootOpts))
	return cmd
}

func validRole(role string) bool {
	switch role {
	case auth.RoleViewer, auth.RoleOperator, auth.RoleAdmin:
		return true
	}
	return false
}

// yamlUser mirrors config.UserConfig with the keys the config file uses.
type yamlUser struct {
	Username     string `yaml:"username" json:"username"`
	PasswordHash string `yaml:"password_hash" json:"password_hash"`
	Role         string `yaml:"role" json:"role"`
}

type yamlMachineToken struct {
	Name      string `yaml:"name" json:"name"`
	TokenHash string `yaml:"token_hash" json:"token_hash"`
	Role      string `yaml:"role" json:"role"`
}

func newHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	var username, role string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin into a users entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRole(role) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("unknown role %q", role), nil)
			}
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return WrapExitError(ExitCommandError, "no password on stdin", err)
			}

			hash, err := auth.NewPasswordHasher().HashPassword(password)
			if err != nil {
				return err
			}
			u := config.UserConfig{Username: username, PasswordHash: hash, Role: role}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if formatter.JSON() {
				return formatter.WriteJSON(yamlUser(u))
			}
			return writeYAML(cmd, map[string]any{"users": []yamlUser{yamlUser(u)}})
		},
	}
	cmd.Flags().StringVar(&username, "username", "operator", "user name of the entry")
	cmd.Flags().StringVar(&role, "role", auth.RoleOperator, "role: viewer, operator or admin")
	return cmd
}

func newMachineTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var name, role string
	cmd := &cobra.Command{
		Use:   "machine-token",
		Short: "Generate a machine token and its machine_tokens entry",
		Long: `Prints the token once on stderr and the configuration entry holding
only its hash on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRole(role) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("unknown role %q", role), nil)
			}
			token, hash, err := auth.NewMachineTokenGenerator().GenerateMachineToken()
			if err != nil {
				return err
			}
			entry := yamlMachineToken(config.MachineTokenConfig{Name: name, TokenHash: hash, Role: role})

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if formatter.JSON() {
				return formatter.WriteJSON(map[string]any{"token": token, "entry": entry})
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "token: %s\n", token)
			return writeYAML(cmd, map[string]any{"machine_tokens": []yamlMachineToken{entry}})
		},
	}
	cmd.Flags().StringVar(&name, "name", "monitor", "name of the token holder")
	cmd.Flags().StringVar(&role, "role", auth.RoleViewer, "role: viewer, operator or admin")
	return cmd
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
