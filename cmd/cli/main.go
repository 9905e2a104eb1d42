package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// Swappable for tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankbook-cli",
		Short: "Bankbook CLI tool",
		Long:  `A command line interface for interacting with the Bankbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Bankbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BANKBOOK_TOKEN"), "Bearer token for authenticated requests")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func registerCmd() *cobra.Command {
	var name, email, username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/api/v1/auth/register", map[string]string{
				"name":                  name,
				"email":                 email,
				"username":              username,
				"password":              password,
				"password_confirmation": password,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/api/v1/auth/login", map[string]string{
				"username": username,
				"password": password,
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/accounts/", nil)
		},
	}

	var name, balance string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/api/v1/accounts/", map[string]string{
				"name":            name,
				"initial_balance": balance,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Initial balance in dollars")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(createCmd)

	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, name, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two of your accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/api/v1/transfers", map[string]string{
				"from_account_id": from,
				"to_account_id":   to,
				"name":            name,
				"amount":          amount,
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source account ID")
	cmd.Flags().StringVar(&to, "to", "", "Target account ID")
	cmd.Flags().StringVar(&name, "name", "Transfer", "Transfer name")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in dollars")

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

// request performs an API call and prints the JSON response.
func request(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var decoded any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &decoded); err != nil {
			fmt.Println(string(respBody))
			return nil
		}
		printJSON(decoded)
	}

	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to format response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
