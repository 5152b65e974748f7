package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/muurk/weathersync/internal/config"
	"github.com/muurk/weathersync/internal/ui"
)

func init() {
	companionsCmd.AddCommand(companionsRenameCmd)
	companionsCmd.AddCommand(companionsForgetCmd)
	rootCmd.AddCommand(companionsCmd)
}

var companionsCmd = &cobra.Command{
	Use:   "companions",
	Short: "List companions recorded in the config file",
	Long: `List the companions recorded by discover and watch, newest first
marked with the default. Use "rename" to give one a nickname and "forget"
to remove it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listCompanions(cmd.OutOrStdout(), loadRegistry())
		return nil
	},
}

var companionsRenameCmd = &cobra.Command{
	Use:   "rename <name> <nickname>",
	Short: "Set a companion's nickname",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		if reg.GetCompanion(args[0]) == nil {
			return fmt.Errorf("unknown companion %q", args[0])
		}
		reg.SetCompanionNickname(args[0], args[1])
		return reg.Save()
	},
}

var companionsForgetCmd = &cobra.Command{
	Use:   "forget <name>",
	Short: "Remove a companion from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		if !reg.ForgetCompanion(args[0]) {
			return fmt.Errorf("unknown companion %q", args[0])
		}
		return reg.Save()
	},
}

// listCompanions prints the registry's companions as a result box.
func listCompanions(w io.Writer, reg *config.Registry) {
	names := reg.CompanionNames()
	if len(names) == 0 {
		fmt.Fprintln(w, ui.RenderErrorBox("No companions recorded", []string{
			"Run 'weathersync discover' to browse the network",
			"Or connect once with 'weathersync watch --url ws://...'",
		}, ui.GetTerminalWidth()))
		return
	}

	defaultURL := ""
	if reg.Preferences != nil {
		defaultURL = reg.Preferences.CompanionURL
	}
	if defaultURL == "" {
		if _, c, ok := reg.MostRecentCompanion(); ok {
			defaultURL = c.LastURL
		}
	}

	details := make([][2]string, 0, len(names))
	for _, name := range names {
		c := reg.GetCompanion(name)
		value := c.LastURL
		if value != "" && value == defaultURL {
			value += " (default)"
		}
		if !c.LastSeen.IsZero() {
			value += ", seen " + c.LastSeen.Format("2006-01-02 15:04")
		}
		label := reg.DisplayName(name)
		if label != name {
			label = fmt.Sprintf("%s [%s]", label, name)
		}
		details = append(details, [2]string{label, value})
	}
	fmt.Fprintln(w, ui.RenderSuccessBox(fmt.Sprintf("%d companion(s)", len(names)), details, ui.GetTerminalWidth()))
}
