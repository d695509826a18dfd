package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bizdeck/cmd/bizdeck/config"
	"bizdeck/cmd/bizdeck/ui"
	"bizdeck/internal/gemini"
	"bizdeck/internal/logging"
	"bizdeck/internal/vault"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	apiKey  string

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bizdeck",
	Short: "bizdeck - AI business automation deck",
	Long: `bizdeck is an interactive terminal deck of AI-powered business tools.

It bundles a conversational business advisor, a product listing generator
and a credential vault behind one dashboard, all driven by the Gemini API.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "bizdeck" && cmd.CalledAs() == "bizdeck" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeck()
	},
}

// listingCmd generates a product listing without entering the TUI
var listingCmd = &cobra.Command{
	Use:   "listing [product description]",
	Short: "Generate a product listing from a description",
	Long: `Generates a listing title, description and product image in one shot.

The image is printed as a data URI suitable for embedding.

Example:
  bizdeck listing "handmade walnut desk organizer"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runListing,
}

// vaultCmd manages stored credentials
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage stored provider credentials",
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	RunE:  runVaultList,
}

var (
	vaultAddProvider string
	vaultAddSecret   string
	vaultAddCategory string
)

var vaultAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a credential",
	Long: `Stores a provider credential in the local vault.

Example:
  bizdeck vault add --provider Stripe --secret sk_live_123 --category payment`,
	RunE: runVaultAdd,
}

var vaultRmCmd = &cobra.Command{
	Use:   "rm [position]",
	Short: "Delete the credential at a list position",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultRm,
}

// configCmd manages persisted settings
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bizdeck configuration",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Persist the Gemini API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(cfg *config.Config) error {
			cfg.APIKey = args[0]
			return nil
		})
	},
}

var configSetThemeCmd = &cobra.Command{
	Use:   "set-theme [light|dark]",
	Short: "Persist the color theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		theme := strings.ToLower(args[0])
		if theme != "light" && theme != "dark" {
			return fmt.Errorf("unknown theme %q (want light or dark)", args[0])
		}
		return updateConfig(func(cfg *config.Config) error {
			cfg.Theme = theme
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")

	vaultAddCmd.Flags().StringVar(&vaultAddProvider, "provider", "", "Provider name (required)")
	vaultAddCmd.Flags().StringVar(&vaultAddSecret, "secret", "", "Secret value (required)")
	vaultAddCmd.Flags().StringVar(&vaultAddCategory, "category", string(vault.CategoryOther), "Category: payment, social, ecommerce or other")
	vaultAddCmd.MarkFlagRequired("provider")
	vaultAddCmd.MarkFlagRequired("secret")

	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultAddCmd)
	vaultCmd.AddCommand(vaultRmCmd)

	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configSetThemeCmd)

	rootCmd.AddCommand(listingCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	// A local .env holds the API key during development. Missing is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveKey applies the flag > env > config precedence.
func resolveKey(cfg config.Config) string {
	if apiKey != "" {
		return apiKey
	}
	return config.ResolveAPIKey(cfg)
}

func stylesFor(cfg config.Config) ui.Styles {
	switch cfg.Theme {
	case "light":
		return ui.NewStyles(ui.LightTheme())
	case "dark":
		return ui.NewStyles(ui.DarkTheme())
	default:
		return ui.DefaultStyles()
	}
}

func newGeminiClient(cfg config.Config, key string) *gemini.Client {
	gcfg := gemini.DefaultConfig(key)
	if cfg.Model != "" {
		gcfg.Model = cfg.Model
	}
	if cfg.ImageModel != "" {
		gcfg.ImageModel = cfg.ImageModel
	}
	return gemini.NewClientWithConfig(gcfg)
}

func openVault(cfg config.Config) (*vault.Store, error) {
	path, err := config.VaultDBPath(cfg)
	if err != nil {
		return nil, err
	}
	slot := cfg.VaultSlot
	if slot == "" {
		slot = vault.DefaultSlot
	}
	return vault.Open(path, slot)
}

// runDeck launches the interactive interface.
func runDeck() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dir, err := config.ConfigDir(); err == nil {
		if err := logging.Initialize(dir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		}
	}
	defer logging.CloseAll()

	key := resolveKey(cfg)
	if key == "" {
		return fmt.Errorf("no API key: set GEMINI_API_KEY or run `bizdeck config set-key`")
	}

	store, err := openVault(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer store.Close()

	client := newGeminiClient(cfg, key)
	newAdvisor := func() gemini.Advisor {
		return gemini.NewChatSession(client, gemini.AdvisorPersona)
	}

	logging.Boot("bizdeck starting, model=%s", client.Model())

	p := tea.NewProgram(
		newShellModel(newAdvisor, client, store, stylesFor(cfg)),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

// runListing is the one-shot listing generator.
func runListing(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	key := resolveKey(cfg)
	if key == "" {
		return fmt.Errorf("no API key: set GEMINI_API_KEY or run `bizdeck config set-key`")
	}

	prompt := strings.Join(args, " ")
	client := newGeminiClient(cfg, key)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger.Info("Generating listing", zap.String("prompt", prompt))

	copyResult, err := client.GenerateListingCopy(ctx, prompt)
	if err != nil {
		return fmt.Errorf("listing copy failed: %w", err)
	}
	imageURI, err := client.GenerateProductImage(ctx, prompt)
	if err != nil {
		return fmt.Errorf("product image failed: %w", err)
	}

	fmt.Printf("Title: %s\n\n%s\n", copyResult.Title, copyResult.Description)
	if imageURI != "" {
		fmt.Printf("\nImage: %s\n", imageURI)
	}
	return nil
}

func runVaultList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records := store.List()
	if len(records) == 0 {
		fmt.Println("No credentials stored.")
		return nil
	}
	for i, r := range records {
		fmt.Printf("%d. %s [%s] %s\n", i+1, r.Provider, r.Category, maskSecret(r.Secret))
	}
	return nil
}

// maskSecret keeps a short prefix for recognition and hides the rest.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func runVaultAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	record := vault.Record{
		Provider: vaultAddProvider,
		Secret:   vaultAddSecret,
		Category: vault.Category(vaultAddCategory),
	}
	if err := store.Add(record); err != nil {
		return err
	}
	logger.Info("Credential stored", zap.String("provider", record.Provider))
	fmt.Printf("Stored credential for %s.\n", record.Provider)
	return nil
}

func runVaultRm(cmd *cobra.Command, args []string) error {
	position, err := strconv.Atoi(args[0])
	if err != nil || position < 1 {
		return fmt.Errorf("position must be a 1-based list index, got %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(position - 1); err != nil {
		return err
	}
	fmt.Printf("Deleted credential %d.\n", position)
	return nil
}

func updateConfig(mutate func(*config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := mutate(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println("Configuration saved.")
	return nil
}
