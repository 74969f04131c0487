package dynamic

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type configField struct {
	Json  string
	Key   string
	Type  string
	Value interface{}
}

// PrintConfig dumps the json fields of the strategy.
//
// @param s: strategy object
// @param f: io.Writer used for writing the config dump
// @param style: pretty print table style. Use NewDefaultTableStyle() to get default one, nil prints plain lines.
// @param withColor: whether to print with color
func PrintConfig(s StrategyID, f io.Writer, style *table.Style, withColor bool) error {
	t := table.NewWriter()
	var write func(io.Writer, string, ...interface{})

	if withColor {
		write = color.New(color.FgHiYellow).FprintfFunc()
	} else {
		write = func(a io.Writer, format string, args ...interface{}) {
			fmt.Fprintf(a, format, args...)
		}
	}
	if style != nil {
		t.SetOutputMirror(f)
		t.SetStyle(*style)
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 4, WidthMax: 50, WidthMaxEnforcer: text.WrapText},
		})
		t.AppendHeader(table.Row{"json", "struct field name", "type", "value"})
	}
	write(f, "---- %s Settings ---\n", s.InstanceID())

	var values []configField
	err := IterateFieldsByTag(s, "json", func(tag string, ft reflect.StructField, fv reflect.Value) error {
		name := strings.Split(tag, ",")[0]
		if name == "" {
			return nil
		}

		value := fv.Interface()
		if e, err := json.Marshal(value); err == nil {
			value = string(e)
		}

		values = append(values, configField{Json: name, Key: ft.Name, Type: ft.Type.String(), Value: value})
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].Json < values[j].Json
	})

	var rows []table.Row
	for _, value := range values {
		if style != nil {
			rows = append(rows, table.Row{value.Json, value.Key, value.Type, value.Value})
		} else {
			write(f, "%s: %v\n", value.Json, value.Value)
		}
	}
	if style != nil {
		t.AppendRows(rows)
		t.Render()
	}

	return nil
}
