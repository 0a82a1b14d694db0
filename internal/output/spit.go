// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/awssweep/internal/config"
	"github.com/tfctl/awssweep/internal/filters"
	"github.com/tfctl/awssweep/internal/sweep"
)

// Columns is every column of a report row, in display order.
var Columns = []string{"service", "kind", "name", "id", "parent", "verb", "intent", "objects", "at"}

// tableColumns are the columns shown by the text renderer.
var tableColumns = []string{"service", "kind", "name", "parent", "verb", "objects"}

// Options selects how a report is rendered.
type Options struct {
	// Format is text, json or yaml.
	Format string
	// Filter is a filters spec applied to the report rows.
	Filter string
	// Sort is a comma separated list of columns; "-" reverses, "!" makes the
	// comparison case sensitive.
	Sort string
	// Titles prints column headers in text output.
	Titles bool
	// Color styles text output.
	Color bool
	// Padding is the gap between text columns.
	Padding int
}

// document is the shape of json and yaml output.
type document struct {
	RunID    string                   `json:"run_id" yaml:"run_id"`
	Prefix   string                   `json:"prefix" yaml:"prefix"`
	Account  string                   `json:"account,omitempty" yaml:"account,omitempty"`
	Region   string                   `json:"region,omitempty" yaml:"region,omitempty"`
	DryRun   bool                     `json:"dry_run" yaml:"dry_run"`
	Started  time.Time                `json:"started" yaml:"started"`
	Finished time.Time                `json:"finished" yaml:"finished"`
	Error    string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Actions  []map[string]interface{} `json:"actions" yaml:"actions"`
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Report numbers are object counts, so they are rendered as integers.
		return humanize.Comma(int64(math.Round(value)))
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Rows filters and sorts the actions of report and returns them keyed by
// column name.
func Rows(report *sweep.Report, filter, sort string) ([]map[string]interface{}, error) {
	if report == nil {
		return nil, nil
	}

	raw, err := json.Marshal(report.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	rows := filters.FilterDataset(gjson.ParseBytes(raw), Columns, filter)
	SortDataset(rows, sort)
	return rows, nil
}

// Emit renders report to w in the format selected by opts. If w is nil,
// os.Stdout is used.
func Emit(report *sweep.Report, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	rows, err := Rows(report, opts.Filter, opts.Sort)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json", "yaml":
		doc := document{Actions: rows}
		if doc.Actions == nil {
			doc.Actions = []map[string]interface{}{}
		}
		if report != nil {
			doc.RunID = report.RunID
			doc.Prefix = report.Prefix
			doc.Account = report.Account
			doc.Region = report.Region
			doc.DryRun = report.DryRun
			doc.Started = report.Started
			doc.Finished = report.Finished
			doc.Error = report.Error
		}

		var out []byte
		if opts.Format == "json" {
			out, err = json.Marshal(doc)
		} else {
			out, err = yaml.Marshal(doc)
		}
		if err != nil {
			return fmt.Errorf("failed to encode %s output: %w", opts.Format, err)
		}
		_, err = w.Write(out)
		if opts.Format == "json" && err == nil {
			_, err = fmt.Fprintln(w)
		}
		return err
	default:
		TableWriter(rows, opts, w)
		fmt.Fprintln(w, Summary(report))
		return nil
	}
}

// Summary is the one line totals footer of a run.
func Summary(report *sweep.Report) string {
	if report == nil {
		return ""
	}

	elapsed := report.Elapsed().Round(time.Millisecond)
	objects := ""
	if n := report.Objects(); n > 0 {
		objects = fmt.Sprintf(", %s objects", humanize.Comma(int64(n)))
	}

	if report.DryRun {
		return fmt.Sprintf("Plan: %s resources match %s%s",
			humanize.Comma(int64(report.Count(sweep.VerbPlan))), report.Prefix, objects)
	}

	return fmt.Sprintf("Deleted %s, detached %s%s in %s",
		humanize.Comma(int64(report.Count(sweep.VerbDelete))),
		humanize.Comma(int64(report.Count(sweep.VerbDetach))),
		objects, elapsed)
}

// TableWriter renders rows in a tabular form honoring color, titles and
// padding options. If w is nil, os.Stdout is used.
func TableWriter(rows []map[string]interface{}, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	// Dry runs show what would have been done instead of "plan".
	verbKey := "verb"
	if rows[0]["verb"] == string(sweep.VerbPlan) {
		verbKey = "intent"
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cell := make([]string, 0, len(tableColumns))
		for _, col := range tableColumns {
			if col == "verb" {
				col = verbKey
			}
			cell = append(cell, InterfaceToString(row[col], "-"))
		}
		cells = append(cells, cell)
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		headers := append([]string(nil), tableColumns...)
		for i, h := range headers {
			if h == "verb" {
				headers[i] = verbKey
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering, defaulting
// by terminal background so output stays readable on light and dark themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
