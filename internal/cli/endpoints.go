package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-api-client/internal/app"
	"github.com/samvad-hq/samvad-api-client/internal/config"
)

// endpointsCmd represents the endpoints command
var endpointsCmd = &cobra.Command{
	Use:   "endpoints [flags]",
	Short: "List the declared API endpoints",
	Long: `List the declared API endpoints with their allowed methods, parent
endpoint, and URL suffix.

Examples:
  # List endpoints from the configured registry file
  apicall endpoints

  # List endpoints from a different registry file
  apicall endpoints --endpoints ./staging-endpoints.yaml

  # List endpoints in JSON format
  apicall endpoints -j`,
	Args: cobra.NoArgs,
	RunE: listEndpoints,
}

// listEndpoints loads the endpoint registry and prints its entries
func listEndpoints(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	reg, err := app.LoadEndpoints(cfg, endpointsFile)
	if err != nil {
		return err
	}

	eps := reg.All()
	if jsonOutput {
		printJSON(eps)
		return nil
	}

	fmt.Printf("%-20s %-28s %-16s %s\n", "NAME", "METHODS", "PARENT", "URL")
	for _, ep := range eps {
		fmt.Printf("%-20s %-28s %-16s %s\n", ep.Name, strings.Join(ep.Methods, ","), ep.Parent, ep.URL)
	}
	return nil
}

// init adds the endpoints command to the root command
func init() {
	rootCmd.AddCommand(endpointsCmd)
}
