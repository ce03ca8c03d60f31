package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/omega-x/kgprep/internal/sparql"
	"github.com/spf13/cobra"
)

var (
	qURL    string
	qRepo   string
	qFile   string
	qUpdate bool
)

var queryCmd = &cobra.Command{
	Use:   "query [sparql]",
	Short: "Run a SPARQL query or update against a GraphDB repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := queryText(args)
		if err != nil {
			return err
		}
		c := currentConfig()
		client := sparql.NewClient(
			pick(qURL, c.GraphDBURL),
			pick(qRepo, c.GraphDBRepository),
			time.Duration(c.HTTPTimeoutSec)*time.Second,
			c.RetryMaxAttempts,
			time.Duration(c.RetryBaseDelayMs)*time.Millisecond,
			time.Duration(c.RetryMaxDelayMs)*time.Millisecond,
		)
		debugf("endpoint: %s", client.Endpoint())

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		if qUpdate {
			if err := client.Update(ctx, text); err != nil {
				return explainQueryError(err)
			}
			progressf("✓ Update applied")
			return nil
		}
		res, err := client.Query(ctx, text)
		if err != nil {
			return explainQueryError(err)
		}
		fmt.Print(res.Table())
		return nil
	},
}

func queryText(args []string) (string, error) {
	switch {
	case qFile != "" && len(args) > 0:
		return "", fmt.Errorf("pass the query either as an argument or with --file, not both")
	case qFile != "":
		b, err := os.ReadFile(qFile)
		if err != nil {
			return "", fmt.Errorf("read query file: %w", err)
		}
		return string(b), nil
	case len(args) == 1:
		return args[0], nil
	}
	return "", fmt.Errorf("no query given")
}

// explainQueryError adds a hint for the failures users can act on.
func explainQueryError(err error) error {
	var nf *sparql.RepositoryNotFoundError
	var un *sparql.UnreachableError
	var bad *sparql.BadRequestError
	switch {
	case errors.As(err, &nf):
		return fmt.Errorf("%w (set graphdb_repository or pass --repo)", err)
	case errors.As(err, &un):
		return fmt.Errorf("%w (is GraphDB running? set graphdb_url or pass --url)", err)
	case errors.As(err, &bad):
		msg := strings.TrimSpace(bad.Message)
		if msg == "" {
			return err
		}
		return fmt.Errorf("query rejected: %s", msg)
	}
	return err
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&qURL, "url", "", "GraphDB base URL (default from config)")
	queryCmd.Flags().StringVar(&qRepo, "repo", "", "GraphDB repository id (default from config)")
	queryCmd.Flags().StringVarP(&qFile, "file", "f", "", "read the query from a file")
	queryCmd.Flags().BoolVar(&qUpdate, "update", false, "send as a SPARQL update")
}
