// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/docdash/internal/attrs"
	"github.com/staranto/docdash/internal/config"
	"github.com/staranto/docdash/internal/filters"
)

// Tag represents a discovered struct field tag used when emitting schema
// information (--schema flag).
type Tag struct {
	Kind     string
	Name     string
	Encoding string
}

// NewTag constructs a Tag from a raw json struct tag value and an optional
// holder prefix used to build hierarchical attribute names. Ignored (-) and
// unnamed fields yield the zero Tag.
func NewTag(h string, s string) Tag {
	parts := strings.Split(s, ",")
	if parts[0] == "" || parts[0] == "-" {
		return Tag{}
	}

	tag := Tag{Kind: "attr", Name: parts[0]}
	if h != "" {
		tag.Name = fmt.Sprintf("%s.%s", h, parts[0])
	}

	if len(parts) > 1 {
		tag.Encoding = parts[1]
	}

	return tag
}

// Print renders the tag into its display form.
func (t Tag) Print() (out string) {
	parts := []string{}
	if t.Name != "" {
		parts = append(parts, t.Name)
	}
	return strings.Join(parts, ",")
}

// DumpExamples renders a table of example command usages.
func DumpExamples(ctx context.Context, cmd *cli.Command, examples [][2]string) {
	if len(examples) == 0 {
		return
	}
	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers().
		Rows(rows...)

	// Set headers and disable the header border for a cleaner look.
	t = t.Headers("Command", "Description").BorderHeader(false)

	fmt.Fprintln(writer(cmd), t)
}

// DumpSchema prints a sorted list of attribute paths for the provided type.
func DumpSchema(w io.Writer, prefix string, typ reflect.Type) {
	tags := DumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("No tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")

	for _, tag := range tags {
		fmt.Fprintln(w, tag.Print())
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w,
		`Attributes that are directly available to the --attrs, --filter and --sort
flags. Nested attributes use . notation. See man docdash-attrs.`)
}

const maxSchemaDepth = 1

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// DumpSchemaWalker recursively walks a struct type discovering json tags.
// Types that encode themselves (timestamps) are reported as leaves.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	tags := make([]Tag, 0)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		log.Debugf("field: %s, type: %s in %s", field.Name, field.Type, field.PkgPath)

		tagValue, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue)
		if tag.Kind != "attr" {
			continue
		}

		tags = append(tags, tag)

		if depth >= maxSchemaDepth || field.Type.Implements(marshalerType) {
			continue
		}

		switch {
		case field.Type.Kind() == reflect.Struct:
			tags = append(tags, DumpSchemaWalker(tag.Name, field.Type, depth+1)...)
		case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
			tags = append(tags, DumpSchemaWalker(tag.Name, field.Type.Elem(), depth+1)...)
		default:
			log.Debugf("Presumed primitive field type: %s for %v", field.Type.Kind(), tag)
		}
	}

	return tags
}

// writer returns the command's writer, defaulting to stdout.
func writer(cmd *cli.Command) io.Writer {
	if cmd != nil && cmd.Root() != nil && cmd.Root().Writer != nil {
		return cmd.Root().Writer
	}
	return os.Stdout
}

// SliceDiceSpit orchestrates filtering, transforming, sorting and rendering
// of a dataset according to command flags and attribute specifications.
func SliceDiceSpit(raw bytes.Buffer,
	attrs attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer) {

	if w == nil {
		w = writer(cmd)
	}

	// If raw, just dump it and go home.
	output := cmd.String("output")
	if output == "raw" {
		_, _ = w.Write(raw.Bytes())
		return
	}

	var fullDataset gjson.Result
	if parent != "" {
		fullDataset = gjson.Parse(raw.String()).Get(parent)
	} else {
		fullDataset = gjson.Parse(raw.String())
	}

	// Filter out the rows we don't want. Do it here so that the following
	// processes are slightly more efficient since they'll be working on a smaller
	// dataset.
	filteredDataset := filters.FilterDataset(fullDataset, attrs, cmd.String("filter"))

	// THINK This forces a time transformation onto every attribute, even though
	// most are not timestamps. Transform leaves non-times alone so it's only
	// wasted work.
	if cmd.Bool("local") {
		for a := range attrs {
			attrs[a].TransformSpec += "t"
		}
	}

	// Transform each value in each row.
	for _, row := range filteredDataset {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(filteredDataset, cmd.String("sort"))

	switch output {
	case "json":
		// TODO Figure out how to maintain key order in the JSON document.
		jsonOutput, err := json.Marshal(filteredDataset)
		if err != nil {
			log.WithError(err).Error("failed to encode json output")
			return
		}
		_, _ = w.Write(jsonOutput)
		_, _ = io.WriteString(w, "\n")
	case "yaml":
		yamlOutput, err := yaml.Marshal(filteredDataset)
		if err != nil {
			log.WithError(err).Error("failed to encode yaml output")
			return
		}
		_, _ = w.Write(yamlOutput)
	default:
		TableWriter(filteredDataset, attrs, cmd, w)
	}
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range attrs {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	pad, _ := config.GetInt("padding", 0)
	log.Debugf("padding: %v", pad)

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
		Rows(rows...)

	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range attrs {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
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
		// Counts and sizes are the only numbers we emit, so drop the fraction.
		return fmt.Sprintf("%.0f", value)
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
