package main

import (
	"fmt"
	"os"
	"time"

	"gitcms/internal/app"
	"gitcms/internal/cms"
	"gitcms/internal/config"
	"gitcms/internal/git"
	"gitcms/internal/model"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and wires the engine. The caller must defer
// a.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "gitcms",
	Short: "Local-first git-backed content management engine",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["work_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Work Dir: %s\n", defaults["work_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Work Dir:  %s\n", cfg.WorkDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Signature: %s <%s>\n", cfg.Signature.Name, cfg.Signature.Email)
		fmt.Printf("Locale:    %s (%s)\n", cfg.Locale.ID, cfg.Locale.Name)
		return nil
	},
}

// project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		project, err := a.Engine().Projects.Create(args[0], description)
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		fmt.Printf("Created project %q (ID: %s)\n", project.Name, project.ID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.Engine().Projects.List(cms.ListOptions{Filter: filter})
		if err != nil {
			return err
		}

		if projects.Total == 0 {
			fmt.Println("No projects found.")
			return nil
		}
		for _, p := range projects.List {
			fmt.Printf("%s  %-20s  %s  created:%s\n",
				p.ID, p.Name, p.Status,
				time.Unix(p.Created, 0).UTC().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var projectReadCmd = &cobra.Command{
	Use:   "read ID",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Engine().Projects.Read(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:           %s\n", p.ID)
		fmt.Printf("Name:         %s\n", p.Name)
		fmt.Printf("Description:  %s\n", p.Description)
		fmt.Printf("Status:       %s\n", p.Status)
		fmt.Printf("Version:      %s\n", p.Version)
		fmt.Printf("Core Version: %s\n", p.CoreVersion)
		fmt.Printf("Created:      %s\n", time.Unix(p.Created, 0).UTC().Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated:      %s\n", time.Unix(p.Updated, 0).UTC().Format("2006-01-02 15:04:05"))
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a project and its whole history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine().Projects.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

var projectUpgradeCmd = &cobra.Command{
	Use:   "upgrade ID",
	Short: "Upgrade a project to the running engine version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine().Projects.Upgrade(args[0], nil); err != nil {
			return err
		}
		fmt.Printf("Project %s is now at %s\n", args[0], app.Version)
		return nil
	},
}

var projectBuildCmd = &cobra.Command{
	Use:   "build ID",
	Short: "Build the project's theme into public/",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine().Projects.Build(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Built project %s\n", args[0])
		return nil
	},
}

// collection command
var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collections",
}

var collectionListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List collections of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		collections, err := a.Engine().Collections.List(args[0], cms.ListOptions{})
		if err != nil {
			return err
		}
		if collections.Total == 0 {
			fmt.Println("No collections found.")
			return nil
		}
		for _, c := range collections.List {
			fmt.Printf("%s  %v\n", c.ID, c.Name)
		}
		return nil
	},
}

// asset command
var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage assets",
}

var assetAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID FILE",
	Short: "Add a file as an asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		language, _ := cmd.Flags().GetString("language")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		asset, err := a.Engine().Assets.Create(args[0], args[1], model.AssetConfig{
			Name:     name,
			Language: language,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added asset %s (%s, %d bytes)\n", asset.ID, asset.MimeType, asset.Size)
		return nil
	},
}

var assetListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List assets of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		assets, err := a.Engine().Assets.List(args[0], cms.ListOptions{})
		if err != nil {
			return err
		}
		if assets.Total == 0 {
			fmt.Println("No assets found.")
			return nil
		}
		for _, asset := range assets.List {
			fmt.Printf("%s  %-12s  %-20s  %d bytes\n", asset.ID, asset.MimeType, asset.Name, asset.Size)
		}
		return nil
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage snapshots",
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create PROJECT_ID NAME",
	Short: "Snapshot the project's current state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.Engine().Snapshots.Create(args[0], args[1], nil)
		if err != nil {
			return err
		}
		fmt.Printf("Created snapshot %q (ID: %s)\n", snapshot.Name, snapshot.ID)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List snapshots of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snapshots, err := a.Engine().Snapshots.List(args[0], cms.ListOptions{})
		if err != nil {
			return err
		}
		if snapshots.Total == 0 {
			fmt.Println("No snapshots found.")
			return nil
		}
		for _, s := range snapshots.List {
			fmt.Printf("%s  %s  %s\n",
				s.ID, time.Unix(s.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"), s.Name)
		}
		return nil
	},
}

var snapshotRevertCmd = &cobra.Command{
	Use:   "revert PROJECT_ID SNAPSHOT_ID",
	Short: "Restore the project to a snapshot's state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Engine().Snapshots.Revert(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Reverted project %s to snapshot %s\n", args[0], args[1])
		return nil
	},
}

var snapshotLogCmd = &cobra.Command{
	Use:   "log PROJECT_ID",
	Short: "View a project's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		commits, err := a.Engine().Snapshots.Log(args[0], git.LogOptions{Limit: limit})
		if err != nil {
			return err
		}
		for _, c := range commits {
			fmt.Printf("%s  %s  %s\n",
				c.Hash[:12], time.Unix(c.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"), c.Message)
		}
		return nil
	},
}

// theme command
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage a project's theme",
}

var themeUseCmd = &cobra.Command{
	Use:   "use PROJECT_ID URL",
	Short: "Clone a theme into the project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		theme, err := a.Engine().Themes.Use(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Using theme %q %s\n", theme.Name, theme.Version)
		return nil
	},
}

var themeUpdateCmd = &cobra.Command{
	Use:   "update PROJECT_ID",
	Short: "Pull the latest theme version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		theme, err := a.Engine().Themes.Update(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Theme %q is now at %s\n", theme.Name, theme.Version)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// project subcommands
	projectCmd.AddCommand(projectCreateCmd)
	projectCreateCmd.Flags().StringP("description", "d", "", "Project description")
	projectCmd.AddCommand(projectListCmd)
	projectListCmd.Flags().StringP("filter", "f", "", "Filter projects by substring")
	projectCmd.AddCommand(projectReadCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectUpgradeCmd)
	projectCmd.AddCommand(projectBuildCmd)

	// collection subcommands
	collectionCmd.AddCommand(collectionListCmd)

	// asset subcommands
	assetCmd.AddCommand(assetAddCmd)
	assetAddCmd.Flags().StringP("name", "n", "", "Display name")
	assetAddCmd.Flags().StringP("language", "l", "en", "Language tag")
	assetCmd.AddCommand(assetListCmd)

	// snapshot subcommands
	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRevertCmd)
	snapshotCmd.AddCommand(snapshotLogCmd)
	snapshotLogCmd.Flags().IntP("limit", "n", 50, "Maximum number of commits to show")

	// theme subcommands
	themeCmd.AddCommand(themeUseCmd)
	themeCmd.AddCommand(themeUpdateCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(collectionCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(themeCmd)
}
