package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"myges/internal/cli"
	"myges/internal/display"
)

func newRequestCmd(opts *rootOptions) *cobra.Command {
	var (
		output cli.OutputFlags
		body   string
		table  bool
	)

	cmd := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Send a request to the MyGES API",
		Long: `Send an authenticated request to the MyGES API and print its result.

The result is printed as indented JSON. With --table, a list of objects is
printed as a table instead.

Examples:
  myges request GET /me/profile
  myges request GET /me/2024/grades -t
  myges request POST /me/projectGroups/1234/messages -b '{"message":"Hi"}'`,
		Args: cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(body)) {
				return fmt.Errorf("request body is not valid JSON: %s", body)
			}
			return output.Validate()
		},
		RunE: runSession(opts, func(s *session, args []string) error {
			method := strings.ToUpper(args[0])

			var payload any
			if method != http.MethodGet && method != http.MethodHead {
				payload = json.RawMessage(body)
			}

			var result json.RawMessage
			err := s.fetch(fmt.Sprintf("%s %s...", method, args[1]), func(ctx context.Context) (err error) {
				result, err = s.client.Do(ctx, method, args[1], payload)
				return err
			})
			if err != nil {
				return err
			}

			out := s.output(output)
			switch {
			case result == nil:
				return out.Message(cli.NothingToDisplay)
			case out.Structured():
				return out.Data(result)
			case table:
				records, err := resultRecords(result)
				if err != nil {
					return err
				}
				return out.Table(records)
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, result, "", "  "); err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}
			return out.Message("%s", buf.String())
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	cmd.Flags().StringVarP(&body, "body", "b", "{}", "JSON body sent with methods other than GET and HEAD")
	cmd.Flags().BoolVarP(&table, "table", "t", false, "Print a list of objects as a table")
	return cmd
}

// resultRecords decodes a JSON array of objects, or a single object, into
// records.
func resultRecords(result json.RawMessage) ([]*display.Record, error) {
	var records []*display.Record
	if err := json.Unmarshal(result, &records); err == nil {
		return records, nil
	}

	var record display.Record
	if err := json.Unmarshal(result, &record); err == nil {
		return []*display.Record{&record}, nil
	}
	return nil, errors.New("result cannot be printed as a table: it is not an object or a list of objects")
}
