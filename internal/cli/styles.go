// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spendsmart/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#60A5FA")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#34D399")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FBBF24")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#F87171")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#93C5FD")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#6B7280")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// AmountStyle right-aligns money columns.
	AmountStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Right)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(1, 2)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💸"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	SwatchGlyph = "●"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the wallet icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(WalletIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}

// CategoryStyle colors text with the category's palette color.
func CategoryStyle(palette model.Palette, c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Color(c)))
}

// Swatch renders a colored dot for the category.
func Swatch(palette model.Palette, c model.Category) string {
	return CategoryStyle(palette, c).Render(SwatchGlyph)
}

// CategoryLabel renders the swatch followed by the category name.
func CategoryLabel(palette model.Palette, c model.Category) string {
	return Swatch(palette, c) + " " + CategoryStyle(palette, c).Render(string(c))
}

// Bar draws a proportional bar of width cells for a share in [0, 1].
func Bar(palette model.Palette, c model.Category, share float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(share*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return CategoryStyle(palette, c).Render(strings.Repeat("█", filled)) +
		SubtleStyle.Render(strings.Repeat("░", width-filled))
}

// FeedbackMark summarizes an expense's review state in one glyph.
func FeedbackMark(e model.Expense) string {
	switch {
	case e.FeedbackStatus == model.FeedbackPositive:
		return SuccessStyle.Render("👍")
	case e.FeedbackStatus == model.FeedbackNegative:
		return ErrorStyle.Render("👎")
	case e.UserCorrected:
		return InfoStyle.Render("✎")
	case e.IsAIGenerated:
		return SubtleStyle.Render(RobotIcon)
	default:
		return ""
	}
}
