package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store the GitHub token in the OS keychain",
	Long: `Saves a GitHub token for commit-history queries. The token only
raises the API rate budget; anonymous access works for public
repositories. With --show the current source is displayed, with --clear
the stored token is removed.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().Bool("show", false, "show where the token comes from")
	configureCmd.Flags().Bool("clear", false, "remove the token from the keychain")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	show, _ := cmd.Flags().GetBool("show")
	clear, _ := cmd.Flags().GetBool("clear")

	km := config.NewKeyringManager()

	if show {
		if os.Getenv("GITHUB_TOKEN") != "" {
			fmt.Println("Token aus Umgebungsvariable GITHUB_TOKEN")
			return nil
		}
		token, err := km.GetToken()
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Println("Kein Token gespeichert (anonymer Zugriff)")
			return nil
		}
		fmt.Printf("Token aus Schlüsselbund: %s\n", config.MaskToken(token))
		return nil
	}

	if clear {
		if err := km.DeleteToken(); err != nil {
			return err
		}
		fmt.Println("Token entfernt")
		return nil
	}

	if !km.IsAvailable() {
		return fmt.Errorf("OS keychain not available; set GITHUB_TOKEN instead")
	}

	fmt.Print("GitHub token: ")
	reader := bufio.NewReader(os.Stdin)
	token, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	token = strings.TrimSpace(token)

	if err := km.SetToken(token); err != nil {
		return err
	}
	fmt.Println("Token gespeichert")
	return nil
}
