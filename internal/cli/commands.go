package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-api-client/internal/app"
)

var (
	// Global flags
	jsonOutput     bool
	hostURL        string
	endpointsFile  string
	responseFormat string
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

const cliVersion = "v0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apicall [command] [flags]",
	Short: "apicall - declarative HTTP calls against registered endpoints",
	Long: `apicall dispatches HTTP calls against endpoints declared in a registry
file. Allowed methods, URL suffixes, and parent nesting all live in the
registry; the command line only names the endpoint and supplies the
per-call options.

Examples:
  # Fetch the users collection
  apicall call get users

  # Fetch one user by id with a query filter
  apicall call get users --id 42 --filter active=true

  # Create a user from a JSON payload
  apicall call post users --data '{"nickname":"neo"}'

  # List the declared endpoints
  apicall endpoints

  # Show the last ten dispatched calls
  apicall history --limit 10`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVar(&hostURL, "host", "", "Host URL override")
	rootCmd.PersistentFlags().StringVar(&endpointsFile, "endpoints", "", "Endpoints file override")
	rootCmd.PersistentFlags().StringVar(&responseFormat, "format", "", "Response format override (json, text, blob)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			printJSON(map[string]string{"error": err.Error()})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// callOverrides collects the persistent override flags.
func callOverrides() app.CallOverrides {
	return app.CallOverrides{
		HostURL:       hostURL,
		EndpointsFile: endpointsFile,
		Format:        responseFormat,
	}
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apicall",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{"version": cliVersion})
				return
			}
			cmd.Printf("apicall %s\n", cliVersion)
		},
	}
}

// printJSON prints the given value as indented JSON to stdout
func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}
