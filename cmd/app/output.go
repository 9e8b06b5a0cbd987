package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	"github.com/goccy/go-json"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n", b)
	return err
}

func printKV(rows [][2]string) {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()
	for _, kv := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", kv[0], kv[1])
	}
}

// printTable writes an aligned table, or "no results" for an empty slice.
func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(stdout, "no results")
		return
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()
	for _, line := range append([][]string{headers}, rows...) {
		_, _ = fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
}

// responseError reports a non-2xx response or a 200 carrying an error body.
func responseError(resp event.Response) error {
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.Unmarshal([]byte(resp.Body), &body)
	if resp.StatusCode >= 300 {
		if body.Error == "" {
			body.Error = strings.TrimSpace(resp.Body)
		}
		return fmt.Errorf("api error (%d): %s", resp.StatusCode, body.Error)
	}
	if body.Error != "" {
		return errors.New(body.Error)
	}
	return nil
}

// printResponse renders the body as a table using columns, or verbatim JSON when asJSON is set.
func printResponse(resp event.Response, columns []string, asJSON bool) error {
	if err := responseError(resp); err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal([]byte(resp.Body), &decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if asJSON {
		return printJSON(decoded)
	}

	switch v := decoded.(type) {
	case []any:
		rows := make([][]string, 0, len(v))
		for _, item := range v {
			obj, _ := item.(map[string]any)
			rows = append(rows, pick(obj, columns))
		}
		printTable(upper(columns), rows)
	case map[string]any:
		keys := columns
		if len(keys) == 0 {
			keys = sortedKeys(v)
		}
		rows := make([][2]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, [2]string{k, formatValue(v[k])})
		}
		printKV(rows)
	default:
		return printJSON(decoded)
	}
	return nil
}

func pick(obj map[string]any, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = formatValue(obj[c])
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func upper(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
