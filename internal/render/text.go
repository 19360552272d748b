// Package render turns API results into display strings. Functions here are
// pure: they return text for the caller to print and do no I/O themselves.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"

	"dsbc/internal/deepseek"
)

const bannerWidth = 50

var (
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CDD6F4"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))
)

func banner() string {
	return bannerStyle.Render(strings.Repeat("=", bannerWidth))
}

// row renders "Label:    value" with the label padded to a fixed column,
// measured on plain width so styling does not skew alignment.
func row(label, value string) string {
	const labelCol = 18
	rendered := labelStyle.Render(label + ":")
	if pad := labelCol - ansi.StringWidth(label+":"); pad > 0 {
		rendered += strings.Repeat(" ", pad)
	}
	return rendered + valueStyle.Render(value)
}

// Balance renders the fixed-width account balance report.
func Balance(b deepseek.Balance) string {
	var out []string
	out = append(out, banner())
	out = append(out, titleStyle.Render("DEEPSEEK ACCOUNT BALANCE"))
	out = append(out, banner())

	out = append(out, row("Total Balance", fmt.Sprintf("%.2f %s", b.Total, b.Currency)))
	out = append(out, row("Available Balance", fmt.Sprintf("%.2f %s", b.Available, b.Currency)))
	out = append(out, row("Used Balance", fmt.Sprintf("%.2f %s", b.Used, b.Currency)))

	if pct := b.UsagePercent(); pct >= 0 {
		out = append(out, row("Usage", fmt.Sprintf("%.1f%%", pct)))
	}
	if b.AccountID != "" {
		out = append(out, row("Account ID", b.AccountID))
	}
	if !b.Timestamp.IsZero() {
		out = append(out, row("Last Updated", b.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")))
	}

	out = append(out, banner())
	return strings.Join(out, "\n")
}

// Models renders the model catalog with pricing per 1K tokens.
func Models(models []deepseek.Model) string {
	var out []string
	out = append(out, banner())
	out = append(out, titleStyle.Render("DEEPSEEK AVAILABLE MODELS"))
	out = append(out, banner())

	if len(models) == 0 {
		out = append(out, "No models available")
		out = append(out, banner())
		return strings.Join(out, "\n")
	}

	blocks := lo.Map(models, func(m deepseek.Model, _ int) string {
		lines := []string{
			"",
			titleStyle.Render("Model: " + m.Name),
			"  " + row("ID", m.ID),
			"  " + row("Context Window", formatContextWindow(m.ContextWindow)),
			"  " + labelStyle.Render("Pricing:"),
			"    " + row("Input", formatPrice(m.InputPricePer1K)),
			"    " + row("Output", formatPrice(m.OutputPricePer1K)),
		}
		return strings.Join(lines, "\n")
	})
	out = append(out, blocks...)

	out = append(out, "")
	out = append(out, banner())
	return strings.Join(out, "\n")
}

// Usage renders the date-range usage report.
func Usage(u deepseek.Usage) string {
	var out []string
	out = append(out, banner())
	out = append(out, titleStyle.Render("DEEPSEEK USAGE"))
	out = append(out, banner())

	if u.StartDate != "" || u.EndDate != "" {
		out = append(out, row("Period", periodLabel(u.StartDate, u.EndDate)))
	}
	out = append(out, row("Requests", fmt.Sprintf("%d", u.TotalRequests)))
	out = append(out, row("Tokens", fmt.Sprintf("%d", u.TotalTokens)))
	if u.Currency != "" {
		out = append(out, row("Cost", fmt.Sprintf("%.2f %s", u.TotalCost, u.Currency)))
	} else {
		out = append(out, row("Cost", fmt.Sprintf("%.2f", u.TotalCost)))
	}

	out = append(out, banner())
	return strings.Join(out, "\n")
}

// Health renders the health probe result.
func Health(healthy bool) string {
	if healthy {
		return okStyle.Render("API is accessible")
	}
	return badStyle.Render("API is not accessible")
}

func periodLabel(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " to " + end
	case start != "":
		return "from " + start
	default:
		return "until " + end
	}
}

func formatContextWindow(n int) string {
	if n <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d tokens", n)
}

func formatPrice(p float64) string {
	if p < 0 {
		return "N/A"
	}
	return fmt.Sprintf("$%s per 1K tokens", trimFloat(p))
}

// trimFloat formats a price without trailing zeros, e.g. 0.00014 not 0.000140.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.6f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
