package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Keep only the innermost message of an error chain
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// title turns a camel-case identifier into title-cased words ("cpcNoRewards" -> "Cpc No Rewards").
func title(ident string) string {
	var words []string
	start := 0
	for i, r := range ident {
		if i > 0 && r >= 'A' && r <= 'Z' {
			words = append(words, ident[start:i])
			start = i
		}
	}
	words = append(words, ident[start:])
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// newTable returns a borderless table in the CLI's house style
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
		MiddleSeparator:  "─",
		UnfinishedRow:    " ≈",
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return color.GreenString("yes")
	}
	return color.New(color.Faint).Sprint("no")
}
