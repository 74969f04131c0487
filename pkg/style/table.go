package style

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTableStyle returns the scan report style, rows are only painted when colors are enabled
func NewTableStyle() *table.Style {
	if color.NoColor {
		return NewPlainTableStyle()
	}

	return NewDefaultTableStyle()
}

func NewDefaultTableStyle() *table.Style {
	style := NewPlainTableStyle()
	style.Color = table.ColorOptionsYellowWhiteOnBlack
	style.Color.Row = text.Colors{text.FgHiYellow, text.BgHiBlack}
	style.Color.RowAlternate = text.Colors{text.FgYellow, text.BgBlack}
	return style
}

// NewPlainTableStyle keeps the rounded box without any escape sequence, for pipes and log files
func NewPlainTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsDefault,
	}
	return &style
}
