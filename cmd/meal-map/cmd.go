// cmd/meal-map/cmd.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mcp-meal-map/internal/models"
)

func SetupCommands(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "meal-map",
		Short:         "Aggregate meal logs into frequency and nutrition maps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.frequency, "frequency", "", "frequency dataset location (path, URL or sqlite://)")
	flags.StringVar(&a.nutrition, "nutrition", "", "nutrition dataset location")
	flags.StringVar(&a.classMap, "class-map", "", "JSON file mapping foods to classes")
	flags.BoolVar(&a.strict, "strict", false, "reject non-numeric nutrients and out-of-range slots")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the datasets and serve them over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Serve()
		},
	}

	var pretty bool
	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print every aggregated collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Summarize(cmd.OutOrStdout(), pretty)
		},
	}
	summarizeCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")

	lookupCmd := &cobra.Command{
		Use:   "lookup [day] [hour]",
		Short: "Print the merged view of one (day, hour) slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0], args[1])
			if err != nil {
				return err
			}
			return a.Lookup(cmd.OutOrStdout(), key)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "meal-map version %s\n", version)
		},
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func parseKey(day, hour string) (models.Key, error) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return models.Key{}, fmt.Errorf("day must be an integer, got %q", day)
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return models.Key{}, fmt.Errorf("hour must be an integer, got %q", hour)
	}
	return models.Key{Day: d, Hour: h}, nil
}
