package ui

import (
	"fmt"
	"strings"

	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/notify"
	"qkart/storefront/internal/service"
)

const (
	LoadingText = "Loading Products..."
	EmptyText   = "No products found"
	noCursor    = -1
)

// RenderCatalog renders exactly one of the loading text, the empty text or
// the product list. Idle (nothing fetched yet, or the first fetch failed)
// renders blank. cursor marks the selected product; pass -1 for none.
func RenderCatalog(view service.View, styles Styles, cursor int) string {
	switch view.State {
	case domain.CatalogLoading:
		return LoadingText
	case domain.CatalogPopulated:
		var sb strings.Builder
		for i, p := range view.Products {
			line := productLine(p)
			if i == cursor {
				sb.WriteString(styles.Selected.Render("> " + line))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	case domain.CatalogEmpty:
		return styles.Muted.Render(EmptyText)
	default:
		return ""
	}
}

// RenderCart renders the cart panel for a logged-in shopper; "" otherwise.
// Lines whose product is not in the catalog show the product id only.
func RenderCart(view service.View, styles Styles, cursor int) string {
	if !view.LoggedIn {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styles.Header.Render("Cart"))
	sb.WriteString("\n")

	if len(view.Cart) == 0 {
		sb.WriteString(styles.Muted.Render("Cart is empty. Add more items to the cart to checkout."))
		return sb.String()
	}

	for i, line := range view.Cart {
		var text string
		if line.Found {
			text = fmt.Sprintf("%-24s x%-3d %10s", truncate(line.Title(), 24), line.Qty, line.LineTotal().StringFixed(2))
		} else {
			text = fmt.Sprintf("%-24s x%-3d %10s", truncate(line.Title(), 24), line.Qty, "-")
		}
		if i == cursor {
			sb.WriteString(styles.Selected.Render("> " + text))
		} else {
			sb.WriteString("  " + text)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nItems: %d   Total: %s", view.ItemCount, styles.Price.Render(view.Subtotal.StringFixed(2))))
	return sb.String()
}

// RenderNotifications lists the active notifications, newest last
func RenderNotifications(items []notify.Notification, styles Styles) string {
	lines := make([]string, 0, len(items))
	for _, n := range items {
		switch n.Severity {
		case notify.SeverityError:
			lines = append(lines, styles.Error.Render("✖ "+n.Message))
		default:
			lines = append(lines, styles.Warning.Render("! "+n.Message))
		}
	}
	return strings.Join(lines, "\n")
}

func productLine(p domain.Product) string {
	stars := p.Stars()
	return fmt.Sprintf("%-28s %-14s %10s  %s",
		truncate(p.Name, 28),
		truncate(p.Category, 14),
		p.Cost.StringFixed(2),
		strings.Repeat("★", stars)+strings.Repeat("☆", domain.MaxRating-stars),
	)
}

func truncate(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l-3]) + "..."
	}
	return s
}
