package docs

import (
	"context"
	"strings"
	"testing"

	docs "google.golang.org/api/docs/v1"
)

func paragraph(text string) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{
				{TextRun: &docs.TextRun{Content: text}},
			},
		},
	}
}

func TestDocumentToPlainText_LegacyBody(t *testing.T) {
	doc := &docs.Document{
		Title: "Meeting Notes",
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				paragraph("First paragraph\n"),
				paragraph("Second paragraph\n"),
			},
		},
	}

	text, err := DocumentToPlainText(doc)
	if err != nil {
		t.Fatalf("DocumentToPlainText() error = %v", err)
	}

	if !strings.HasPrefix(text, "Meeting Notes\n\n") {
		t.Errorf("missing title prefix in %q", text)
	}
	if !strings.Contains(text, "First paragraph\nSecond paragraph\n") {
		t.Errorf("missing paragraphs in %q", text)
	}
}

func TestDocumentToPlainText_Tabs(t *testing.T) {
	doc := &docs.Document{
		Title: "Tabbed",
		Tabs: []*docs.Tab{
			{
				TabProperties: &docs.TabProperties{Title: "Overview"},
				DocumentTab: &docs.DocumentTab{
					Body: &docs.Body{
						Content: []*docs.StructuralElement{paragraph("Tab one content\n")},
					},
				},
				ChildTabs: []*docs.Tab{
					{
						DocumentTab: &docs.DocumentTab{
							Body: &docs.Body{
								Content: []*docs.StructuralElement{paragraph("Nested content\n")},
							},
						},
					},
				},
			},
		},
	}

	text, err := DocumentToPlainText(doc)
	if err != nil {
		t.Fatalf("DocumentToPlainText() error = %v", err)
	}

	if !strings.Contains(text, "=== Overview ===") {
		t.Errorf("missing tab header in %q", text)
	}
	if !strings.Contains(text, "Tab one content") {
		t.Errorf("missing tab content in %q", text)
	}
	if !strings.Contains(text, "=== Tab 1 ===") {
		t.Errorf("missing default child tab header in %q", text)
	}
	if !strings.Contains(text, "Nested content") {
		t.Errorf("missing nested content in %q", text)
	}
}

func TestDocumentToPlainText_Table(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{
					Table: &docs.Table{
						TableRows: []*docs.TableRow{
							{
								TableCells: []*docs.TableCell{
									{Content: []*docs.StructuralElement{paragraph("A1")}},
									{Content: []*docs.StructuralElement{paragraph("B1")}},
								},
							},
						},
					},
				},
			},
		},
	}

	text, err := DocumentToPlainText(doc)
	if err != nil {
		t.Fatalf("DocumentToPlainText() error = %v", err)
	}
	if !strings.Contains(text, "A1\tB1\t\n") {
		t.Errorf("table text = %q, want tab-separated cells", text)
	}
}

func TestDocumentToPlainText_Nil(t *testing.T) {
	if _, err := DocumentToPlainText(nil); err == nil {
		t.Error("DocumentToPlainText(nil) should fail")
	}
}

func TestEndIndex(t *testing.T) {
	if got := endIndex(nil); got != 1 {
		t.Errorf("endIndex(nil) = %d, want 1", got)
	}
	if got := endIndex(&docs.Document{Body: &docs.Body{}}); got != 1 {
		t.Errorf("endIndex(empty body) = %d, want 1", got)
	}

	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{EndIndex: 10},
				{EndIndex: 42},
			},
		},
	}
	if got := endIndex(doc); got != 42 {
		t.Errorf("endIndex() = %d, want 42", got)
	}
}

func TestValidation(t *testing.T) {
	c := &Client{}
	ctx := context.Background()

	if _, err := c.SearchDocs(ctx, "", 10); err == nil {
		t.Error("SearchDocs with empty query should fail")
	}
	if _, err := c.GetContent(ctx, ""); err == nil {
		t.Error("GetContent with empty documentID should fail")
	}
	if _, err := c.CreateDoc(ctx, "", "content"); err == nil {
		t.Error("CreateDoc with empty title should fail")
	}
	if err := c.ModifyText(ctx, "doc123", "", 1, ""); err == nil {
		t.Error("ModifyText with empty text should fail")
	}
	if err := c.AppendText(ctx, "", "text"); err == nil {
		t.Error("AppendText with empty documentID should fail")
	}
}
