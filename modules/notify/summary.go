package notify

import (
	"fmt"
	"strings"

	"github.com/example/footwear-wholesale/events"
)

// ComposeSummary renders an order as the plain-text message sent to the operator chat.
func ComposeSummary(e events.OrderPlacedEvent) string {
	var sb strings.Builder

	title := "New order"
	if e.Kind == events.OrderKindQuick {
		title = "Quick order"
	}
	fmt.Fprintf(&sb, "%s %s\n", title, e.Reference)
	fmt.Fprintf(&sb, "Customer: %s\n", e.CustomerName)
	fmt.Fprintf(&sb, "Phone: %s\n\n", e.CustomerPhone)

	for i, item := range e.Items {
		name := item.Name
		if item.Color != "" {
			name = fmt.Sprintf("%s (%s)", item.Name, item.Color)
		}
		fmt.Fprintf(&sb, "%d. %s: %d x %d = %d\n", i+1, name, item.Quantity, item.Price, item.Quantity*item.Price)
	}

	fmt.Fprintf(&sb, "\nTotal: %d", e.Total)
	return sb.String()
}

// firstPhoto returns the first item's photo, or "" when it has none.
func firstPhoto(e events.OrderPlacedEvent) string {
	if len(e.Items) == 0 {
		return ""
	}
	return e.Items[0].Photo
}
