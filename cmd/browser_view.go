package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for consistent theming
var (
	// Primary colors
	primaryBlue   = lipgloss.Color("39")  // Bright blue for headers
	primaryGreen  = lipgloss.Color("82")  // Success/live indicators
	primaryYellow = lipgloss.Color("220") // Status messages
	primaryRed    = lipgloss.Color("196") // Errors/out of stock

	// Secondary colors
	secondaryGray = lipgloss.Color("244") // Metadata text
	lightGray     = lipgloss.Color("248") // Descriptions
	darkGray      = lipgloss.Color("240") // Borders
	footerGray    = lipgloss.Color("241") // Footer text

	// Accent colors
	accentCyan   = lipgloss.Color("86")  // Seller names
	accentOrange = lipgloss.Color("208") // Low stock
)

func (m *browserModel) renderLoading() string {
	loadingStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(primaryBlue).
		Bold(true)

	return loadingStyle.Render("🔄 Loading catalog...")
}

func (m *browserModel) renderProductList() string {
	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryBlue).
		Padding(0, 1).
		MarginBottom(1)

	headerText := "🛍  souq catalog"
	if m.live {
		liveStyle := lipgloss.NewStyle().Foreground(primaryGreen)
		headerText += liveStyle.Render("  ● live")
	}
	content.WriteString(headerStyle.Render(headerText))
	content.WriteString("\n\n")

	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Foreground(primaryYellow).
			Bold(true).
			Padding(2, 4)
		content.WriteString(loadingStyle.Render("🔄 Loading products..."))
	} else if len(m.products) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(secondaryGray).
			Italic(true).
			Padding(2, 4)
		content.WriteString(emptyStyle.Render("📋 No products listed right now"))
	} else {
		content.WriteString(m.tableModel.View())
	}

	if m.statusMessage != "" {
		content.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(primaryYellow).
			Bold(true).
			Padding(0, 1).
			MarginTop(1).
			Background(lipgloss.Color("237")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryYellow)
		content.WriteString(statusStyle.Render(fmt.Sprintf("ℹ️  %s", m.statusMessage)))
	}

	content.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(footerGray).
		Padding(1, 1).
		MarginTop(1).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(darkGray)

	navKeys := lipgloss.NewStyle().Foreground(primaryBlue).Render("[jk/↑↓]")
	actionKeys := lipgloss.NewStyle().Foreground(primaryGreen).Render("[Enter]")
	copyKeys := lipgloss.NewStyle().Foreground(primaryYellow).Render("[yy]")
	refreshKeys := lipgloss.NewStyle().Foreground(accentCyan).Render("[r]")
	quitKeys := lipgloss.NewStyle().Foreground(primaryRed).Render("[q]")

	footer := fmt.Sprintf("⌨️  %s Navigate • %s Open • %s Copy ID • %s Refresh • %s Quit",
		navKeys, actionKeys, copyKeys, refreshKeys, quitKeys)
	content.WriteString(footerStyle.Render(footer))

	return content.String()
}

func (m *browserModel) renderProductDetail() string {
	if m.product == nil {
		return "No product selected"
	}

	var content strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryBlue).
		Padding(0, 1).
		MarginBottom(1)

	nameStyle := lipgloss.NewStyle().Foreground(primaryGreen).Bold(true)
	content.WriteString(headerStyle.Render(fmt.Sprintf("📦 %s", nameStyle.Render(m.product.Name))))
	content.WriteString("\n\n")

	metaStyle := lipgloss.NewStyle().
		Foreground(secondaryGray).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(darkGray).
		Padding(1, 2)

	priceStyle := lipgloss.NewStyle().Foreground(primaryGreen).Bold(true)
	sellerStyle := lipgloss.NewStyle().Foreground(accentCyan)

	stockStyle := lipgloss.NewStyle().Foreground(primaryGreen)
	stockText := fmt.Sprintf("%d in stock", m.product.Stock)
	switch {
	case m.product.Stock == 0:
		stockStyle = stockStyle.Foreground(primaryRed)
		stockText = "out of stock"
	case m.product.Stock < 5:
		stockStyle = stockStyle.Foreground(accentOrange)
	}

	meta := fmt.Sprintf("💰 %s • 📦 %s • 🏪 %s",
		priceStyle.Render(formatPrice(m.product.PriceCents, m.product.Currency)),
		stockStyle.Render(stockText),
		sellerStyle.Render(m.product.SellerID))
	content.WriteString(metaStyle.Render(meta))
	content.WriteString("\n\n")

	if m.product.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1).
			Width(m.width - 4)
		content.WriteString(descStyle.Render(m.product.Description))
		content.WriteString("\n")
	}

	if m.statusMessage != "" {
		content.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(primaryYellow).
			Bold(true).
			Padding(0, 1).
			MarginTop(1).
			Background(lipgloss.Color("237")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryYellow)
		content.WriteString(statusStyle.Render(fmt.Sprintf("ℹ️  %s", m.statusMessage)))
	}

	content.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(footerGray).
		Padding(1, 1).
		MarginTop(1).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(darkGray)

	copyKeys := lipgloss.NewStyle().Foreground(primaryYellow).Render("[yy]")
	backKeys := lipgloss.NewStyle().Foreground(accentCyan).Render("[b/Esc]")
	quitKeys := lipgloss.NewStyle().Foreground(primaryRed).Render("[q]")

	footer := fmt.Sprintf("⌨️  %s Copy ID • %s Back • %s Quit", copyKeys, backKeys, quitKeys)
	content.WriteString(footerStyle.Render(footer))

	return content.String()
}

func (m *browserModel) renderError() string {
	errorStyle := lipgloss.NewStyle().
		Foreground(primaryRed).
		Bold(true).
		Padding(2, 4).
		Margin(2, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryRed).
		Background(lipgloss.Color("237"))

	quitKey := lipgloss.NewStyle().Foreground(primaryYellow).Bold(true).Render("[q]")
	errorText := fmt.Sprintf("❌ Error: %s\n\nPress %s to quit", m.err.Error(), quitKey)

	return errorStyle.Render(errorText)
}

func (m *browserModel) renderHelp() string {
	var helpContent strings.Builder

	helpStyle := lipgloss.NewStyle().
		Padding(2, 4).
		Margin(2, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryBlue).
		Background(lipgloss.Color("235")).
		Width(m.width - 16)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryBlue).
		Align(lipgloss.Center).
		Width(m.width - 24)

	helpContent.WriteString(titleStyle.Render("🆘 souq Help"))
	helpContent.WriteString("\n\n")

	if m.previousState == stateProductDetail {
		helpContent.WriteString(renderShortcuts("Product Detail:", [][]string{
			{"yy", "Copy product ID"},
			{"b, Esc", "Back to catalog"},
		}))
	} else {
		helpContent.WriteString(renderShortcuts("Catalog Navigation:", [][]string{
			{"jk, ↑↓", "Navigate listings"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"Enter", "Open selected product"},
			{"yy", "Copy product ID"},
			{"r", "Force refresh from backend"},
		}))
	}

	helpContent.WriteString("\n")
	universalStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentCyan).
		MarginTop(1)
	helpContent.WriteString(universalStyle.Render("Universal Commands:"))
	helpContent.WriteString("\n")
	helpContent.WriteString(renderShortcuts("", [][]string{
		{"?", "Toggle this help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc", "Close help/go back"},
	}))

	helpContent.WriteString("\n\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(secondaryGray).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width - 24)
	helpContent.WriteString(footerStyle.Render("Press ? or Esc to close help"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		helpStyle.Render(helpContent.String()))
}

func renderShortcuts(title string, shortcuts [][]string) string {
	var content strings.Builder

	if title != "" {
		sectionStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryGreen).
			MarginBottom(1)
		content.WriteString(sectionStyle.Render(title))
		content.WriteString("\n")
	}

	keyStyle := lipgloss.NewStyle().Foreground(primaryYellow).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lightGray)
	for _, shortcut := range shortcuts {
		content.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", shortcut[0])),
			descStyle.Render(shortcut[1])))
	}

	return content.String()
}
