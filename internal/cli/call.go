package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-api-client/internal/app"
	"github.com/samvad-hq/samvad-api-client/internal/config"
	"github.com/samvad-hq/samvad-api-client/internal/extract"
	"github.com/samvad-hq/samvad-api-client/internal/logger"
	"github.com/samvad-hq/samvad-api-client/pkg/restclient"
)

var (
	// Call command flags
	callID      string
	callFilters []string
	callData    []string
	callExtract string
	callMeta    bool
	callOutput  string
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call METHOD ENDPOINT [flags]",
	Short: "Dispatch one call against a registered endpoint",
	Long: `Dispatch one call against a registered endpoint. The method must be
one of the verbs the endpoint declares; the request path, query string,
and body are derived from the endpoint definition and the flags below.

Examples:
  # Fetch the users collection
  apicall call get users

  # Fetch one user, filters keep their declaration order
  apicall call get users --id 42 --filter active=true --filter limit=5

  # Create a user; --data fields plus id/filter form the body
  apicall call post users --data nickname=neo --data age=42

  # Pull headlines out of an HTML page
  apicall call get frontpage --format text --extract "h2.headline"

  # Save a binary response to a file
  apicall call get export --format blob --output export.bin`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

// runCall builds the request options from flags, dispatches the call,
// and prints the decoded result
func runCall(cmd *cobra.Command, args []string) error {
	method := args[0]
	endpoint := args[1]

	if callExtract != "" && callMeta {
		return fmt.Errorf("--extract and --meta are mutually exclusive")
	}

	opts := &restclient.RequestOptions{ID: callID}
	for _, raw := range callFilters {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid --filter %q (expected key=value)", raw)
		}
		opts.Filter = append(opts.Filter, restclient.Param{Key: key, Value: value})
	}
	if len(callData) > 0 {
		opts.Extra = make(map[string]any, len(callData))
		for _, raw := range callData {
			key, value, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("invalid --data %q (expected key=value)", raw)
			}
			opts.Extra[key] = dataValue(value)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rt, err := app.NewCallRuntime(cfg, &logger.NopLogger{}, callOverrides())
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.Call(cmd.Context(), method, endpoint, opts)
	if err != nil {
		return err
	}

	if callExtract != "" || callMeta {
		return printExtracted(res)
	}
	return printResult(res)
}

// printExtracted runs the HTML helpers over text/blob responses.
func printExtracted(res *restclient.Result) error {
	body, err := htmlBody(res)
	if err != nil {
		return err
	}

	if callMeta {
		meta, err := extract.PageMeta(body)
		if err != nil {
			return err
		}
		meta.ImageURL = extract.ResolveURL(meta.ImageURL, res.RequestURL)
		if jsonOutput {
			printJSON(meta)
			return nil
		}
		fmt.Printf("Title:       %s\n", meta.Title)
		fmt.Printf("Description: %s\n", meta.Description)
		fmt.Printf("Image:       %s\n", meta.ImageURL)
		return nil
	}

	matches, err := extract.Select(body, callExtract)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(matches)
		return nil
	}
	for _, m := range matches {
		fmt.Println(m)
	}
	return nil
}

// dataValue decodes JSON literals so numbers and booleans survive the
// string flag; anything that fails to parse stays a plain string.
func dataValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func htmlBody(res *restclient.Result) ([]byte, error) {
	switch res.Format {
	case restclient.FormatText:
		return []byte(res.Text), nil
	case restclient.FormatBlob:
		return res.Blob, nil
	default:
		return nil, fmt.Errorf("html extraction requires the text or blob response format (got %q)", res.Format)
	}
}

// printResult renders the decoded result per its format.
func printResult(res *restclient.Result) error {
	switch res.Format {
	case restclient.FormatText:
		if jsonOutput {
			printJSON(map[string]any{"status": res.StatusCode, "value": res.Text})
			return nil
		}
		fmt.Println(res.Text)
	case restclient.FormatBlob:
		if callOutput != "" {
			if err := os.WriteFile(callOutput, res.Blob, 0o644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}
			okLabel.Printf("wrote %d bytes to %s\n", len(res.Blob), callOutput)
			return nil
		}
		if jsonOutput {
			printJSON(map[string]any{"status": res.StatusCode, "bytes": len(res.Blob)})
			return nil
		}
		os.Stdout.Write(res.Blob)
	default:
		if jsonOutput {
			printJSON(map[string]any{"status": res.StatusCode, "value": res.JSON})
			return nil
		}
		printJSON(res.JSON)
	}
	return nil
}

// init initializes the call command with its flags and adds it to the root command
func init() {
	rootCmd.AddCommand(callCmd)

	// Add flags
	callCmd.Flags().StringVar(&callID, "id", "", "Resource id appended to the endpoint path")
	callCmd.Flags().StringArrayVar(&callFilters, "filter", nil, "Query filter key=value (repeatable, order preserved)")
	callCmd.Flags().StringArrayVar(&callData, "data", nil, "Body field key=value (repeatable, value parsed as JSON when possible)")
	callCmd.Flags().StringVar(&callExtract, "extract", "", "CSS selector applied to HTML responses")
	callCmd.Flags().BoolVar(&callMeta, "meta", false, "Print page metadata of HTML responses")
	callCmd.Flags().StringVarP(&callOutput, "output", "o", "", "Write blob responses to a file")
}
