package drive

import (
	"context"
	"testing"
	"time"

	drive "google.golang.org/api/drive/v3"
)

func TestConvertToFileInfo(t *testing.T) {
	driveFile := &drive.File{
		Id:           "file123",
		Name:         "test.pdf",
		MimeType:     "application/pdf",
		Size:         1024,
		CreatedTime:  "2023-01-01T10:00:00Z",
		ModifiedTime: "2023-01-02T15:30:00Z",
		WebViewLink:  "https://drive.google.com/file/d/file123/view",
		Parents:      []string{"parent1", "parent2"},
		Shared:       true,
		Trashed:      false,
		Owners: []*drive.User{
			{
				DisplayName:  "Test User",
				EmailAddress: "test@example.com",
			},
		},
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file123" {
		t.Errorf("Expected ID file123, got %s", fileInfo.ID)
	}
	if fileInfo.Name != "test.pdf" {
		t.Errorf("Expected name test.pdf, got %s", fileInfo.Name)
	}
	if fileInfo.MimeType != "application/pdf" {
		t.Errorf("Expected MIME type application/pdf, got %s", fileInfo.MimeType)
	}
	if fileInfo.Size != 1024 {
		t.Errorf("Expected size 1024, got %d", fileInfo.Size)
	}
	if !fileInfo.Shared {
		t.Error("Expected shared to be true")
	}

	wantCreated := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	if !fileInfo.CreatedTime.Equal(wantCreated) {
		t.Errorf("Expected created time %v, got %v", wantCreated, fileInfo.CreatedTime)
	}

	if len(fileInfo.Owners) != 1 {
		t.Fatalf("Expected 1 owner, got %d", len(fileInfo.Owners))
	}
	if fileInfo.Owners[0].EmailAddress != "test@example.com" {
		t.Errorf("Expected owner email test@example.com, got %s", fileInfo.Owners[0].EmailAddress)
	}
}

func TestConvertToFileInfo_InvalidTimestamps(t *testing.T) {
	fileInfo := convertToFileInfo(&drive.File{
		Id:           "file123",
		CreatedTime:  "not-a-timestamp",
		ModifiedTime: "",
	})

	if !fileInfo.CreatedTime.IsZero() {
		t.Error("Expected zero created time for invalid timestamp")
	}
	if !fileInfo.ModifiedTime.IsZero() {
		t.Error("Expected zero modified time for empty timestamp")
	}
}

func TestConvertToPermission(t *testing.T) {
	perm := convertToPermission(&drive.Permission{
		Id:           "perm123",
		Type:         "user",
		Role:         "reader",
		EmailAddress: "reader@example.com",
		DisplayName:  "Reader User",
	})

	if perm.ID != "perm123" {
		t.Errorf("Expected ID perm123, got %s", perm.ID)
	}
	if perm.Type != "user" {
		t.Errorf("Expected type user, got %s", perm.Type)
	}
	if perm.Role != "reader" {
		t.Errorf("Expected role reader, got %s", perm.Role)
	}
	if perm.EmailAddress != "reader@example.com" {
		t.Errorf("Expected email reader@example.com, got %s", perm.EmailAddress)
	}
}

func TestExportMimeType(t *testing.T) {
	tests := []struct {
		mimeType     string
		wantExport   string
		wantExported bool
	}{
		{DocumentMimeType, "text/plain", true},
		{SpreadsheetMimeType, "text/csv", true},
		{PresentationMimeType, "text/plain", true},
		{"application/pdf", "", false},
		{"text/plain", "", false},
		{FolderMimeType, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			got, exported := ExportMimeType(tt.mimeType)
			if got != tt.wantExport || exported != tt.wantExported {
				t.Errorf("ExportMimeType(%s) = (%q, %v), want (%q, %v)",
					tt.mimeType, got, exported, tt.wantExport, tt.wantExported)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	// Validation runs before any API call, so an empty client suffices.
	c := &Client{}
	ctx := context.Background()

	if _, err := c.SearchFiles(ctx, "", 10); err == nil {
		t.Error("SearchFiles with empty query should fail")
	}
	if _, err := c.GetFileContent(ctx, ""); err == nil {
		t.Error("GetFileContent with empty fileID should fail")
	}
	if _, err := c.CreateFile(ctx, "", "content", "root", "text/plain"); err == nil {
		t.Error("CreateFile with empty name should fail")
	}
	if _, err := c.CreateFolder(ctx, "", "root"); err == nil {
		t.Error("CreateFolder with empty name should fail")
	}
	if err := c.DeleteFile(ctx, ""); err == nil {
		t.Error("DeleteFile with empty fileID should fail")
	}
	if _, err := c.TrashFile(ctx, ""); err == nil {
		t.Error("TrashFile with empty fileID should fail")
	}
	if _, err := c.ShareFile(ctx, "file123", "", "reader", false); err == nil {
		t.Error("ShareFile with empty email should fail")
	}
	if _, err := c.ShareFile(ctx, "file123", "a@example.com", "admin", false); err == nil {
		t.Error("ShareFile with invalid role should fail")
	}
	if err := c.RemovePermission(ctx, "file123", ""); err == nil {
		t.Error("RemovePermission with empty permissionID should fail")
	}
}
