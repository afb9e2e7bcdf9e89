// Package cli implements the localbase command-line interface: a thin
// consumer of the embedded data-service layer for inspecting and seeding a
// local database.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rewardmaths/localbase/internal/paths"
	"github.com/rewardmaths/localbase/pkg/localbase"
	"github.com/rewardmaths/localbase/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "localbase" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "localbase",
		Short: "Local record store for the RewardMaths practice game",
		Long: "Localbase manages the profiles, game sessions, attempts, and level\n" +
			"configuration of a local practice database, and serves its computed\n" +
			"performance views.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .localbase-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newSignInCmd())
	root.AddCommand(newSignOutCmd())
	root.AddCommand(newWhoAmICmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newSessionsCmd())
	root.AddCommand(newDailyCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
// Storage faults exit with a system error code; everything else is
// treated as a user error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if types.IsKind(err, types.KindStorage) {
			os.Exit(exitSysError)
		}
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

// withClient resolves directories, loads configuration, opens the store,
// runs fn against a client over it, and releases the store.
func withClient(fn func(*localbase.Client) error) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	client, closeStore, err := localbase.Open(types.Config{
		DataDir:       dataDir,
		SchemaVersion: v.GetInt(cfgKeySchemaVersion),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	return fn(client)
}
