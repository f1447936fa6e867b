package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// DocumentToPlainText extracts the plain text of a Google Doc.
// Supports both legacy documents (with doc.Body) and tabbed documents
// (with doc.Tabs), including nested child tabs.
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var text strings.Builder

	if doc.Title != "" {
		text.WriteString(doc.Title)
		text.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		for tabIndex, tab := range doc.Tabs {
			writeTabText(&text, tab, tabIndex, 0)
		}
	} else if doc.Body != nil {
		for _, element := range doc.Body.Content {
			extractPlainText(&text, element)
		}
	}

	return text.String(), nil
}

// writeTabText extracts the text of one tab and recurses into its children
func writeTabText(text *strings.Builder, tab *docs.Tab, tabIndex, depth int) {
	title := ""
	if tab.TabProperties != nil {
		title = tab.TabProperties.Title
	}
	if title == "" {
		title = fmt.Sprintf("Tab %d", tabIndex+1)
	}
	text.WriteString(strings.Repeat("  ", depth))
	text.WriteString("=== ")
	text.WriteString(title)
	text.WriteString(" ===\n\n")

	if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
		for _, element := range tab.DocumentTab.Body.Content {
			extractPlainText(text, element)
		}
	}

	for childIndex, child := range tab.ChildTabs {
		writeTabText(text, child, childIndex, depth+1)
	}

	text.WriteString("\n")
}

// extractPlainText extracts plain text from a structural element
func extractPlainText(text *strings.Builder, element *docs.StructuralElement) {
	if element.Paragraph != nil {
		extractParagraphText(text, element.Paragraph)
	} else if element.Table != nil {
		extractTableText(text, element.Table)
	}
}

// extractParagraphText extracts plain text from a paragraph
func extractParagraphText(text *strings.Builder, para *docs.Paragraph) {
	if para == nil {
		return
	}
	for _, elem := range para.Elements {
		if elem.TextRun != nil && elem.TextRun.Content != "" {
			text.WriteString(elem.TextRun.Content)
		}
	}
}

// extractTableText extracts plain text from a table, tab-separated
func extractTableText(text *strings.Builder, table *docs.Table) {
	if table == nil {
		return
	}
	for _, row := range table.TableRows {
		for _, cell := range row.TableCells {
			for _, element := range cell.Content {
				if element.Paragraph != nil {
					extractParagraphText(text, element.Paragraph)
				}
			}
			text.WriteString("\t")
		}
		text.WriteString("\n")
	}
}
