package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hashtagsync/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credentials",
	Long: `Manage stored Airtable and Instagram credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store credentials securely",
	Long: `Store an Airtable token, base id, Instagram user id and access token
under an account name, in the system keychain or an encrypted file.

You will be prompted for:
  - Account name (if not provided)
  - Airtable personal access token (hidden input)
  - Airtable base ID
  - Instagram business account user ID
  - Instagram Graph API access token (hidden input)`,
	Example: `  # Interactive login
  hashtagsync auth login

  # Login with account name
  hashtagsync auth login marketing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <account>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with sanitized credential information.`,
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	name := ""
	if len(args) == 1 {
		name = strings.TrimSpace(args[0])
	}
	if name == "" {
		fmt.Print("Account name: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read account name: %w", err)
		}
		name = strings.TrimSpace(line)
	}
	if name == "" {
		return fmt.Errorf("account name is required")
	}

	airtableToken, err := promptSecret("Airtable token: ")
	if err != nil {
		return err
	}

	fmt.Print("Airtable base ID: ")
	baseID, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read base ID: %w", err)
	}

	fmt.Print("Instagram user ID: ")
	userID, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read user ID: %w", err)
	}

	instagramToken, err := promptSecret("Instagram access token: ")
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to open credential stores: %w", err)
	}

	account := &auth.Account{
		Name:            name,
		AirtableToken:   airtableToken,
		AirtableBaseID:  strings.TrimSpace(baseID),
		InstagramUserID: strings.TrimSpace(userID),
		InstagramToken:  instagramToken,
	}
	if err := manager.Store(account); err != nil {
		return err
	}

	fmt.Printf("Credentials stored for account %q.\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to open credential stores: %w", err)
	}

	if err := manager.Delete(name); err != nil {
		return err
	}

	fmt.Printf("Credentials removed for account %q.\n", name)
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to open credential stores: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("No stored accounts.")
		return nil
	}

	for _, account := range accounts {
		fmt.Printf("%s\n", account.Name)
		fmt.Printf("  Airtable token:  %s\n", redact(account.AirtableToken))
		fmt.Printf("  Airtable base:   %s\n", account.AirtableBaseID)
		fmt.Printf("  Instagram user:  %s\n", account.InstagramUserID)
		fmt.Printf("  Instagram token: %s\n", redact(account.InstagramToken))
	}
	return nil
}

// promptSecret reads a line without echoing it to the terminal
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("value is required")
	}
	return secret, nil
}

// redact shows only the first and last few characters of a secret
func redact(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
