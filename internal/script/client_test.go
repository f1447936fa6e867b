package script

import (
	"context"
	"testing"

	script "google.golang.org/api/script/v1"
)

func TestValidation(t *testing.T) {
	c := &Client{}
	ctx := context.Background()

	if _, err := c.CreateProject(ctx, "", ""); err == nil {
		t.Error("CreateProject with empty title should fail")
	}
	if _, err := c.GetProject(ctx, ""); err == nil {
		t.Error("GetProject with empty scriptID should fail")
	}
	if _, err := c.GetContent(ctx, ""); err == nil {
		t.Error("GetContent with empty scriptID should fail")
	}
	if _, err := c.UpdateContent(ctx, "script123", nil); err == nil {
		t.Error("UpdateContent with no files should fail")
	}
	if _, err := c.UpdateContent(ctx, "", []*script.File{{Name: "Code"}}); err == nil {
		t.Error("UpdateContent with empty scriptID should fail")
	}
	if _, err := c.CreateVersion(ctx, "", "desc"); err == nil {
		t.Error("CreateVersion with empty scriptID should fail")
	}
	if _, err := c.ListVersions(ctx, ""); err == nil {
		t.Error("ListVersions with empty scriptID should fail")
	}
	if _, err := c.CreateDeployment(ctx, "", 1, "desc"); err == nil {
		t.Error("CreateDeployment with empty scriptID should fail")
	}
	if _, err := c.ListDeployments(ctx, ""); err == nil {
		t.Error("ListDeployments with empty scriptID should fail")
	}
	if err := c.DeleteDeployment(ctx, "script123", ""); err == nil {
		t.Error("DeleteDeployment with empty deploymentID should fail")
	}
	if _, err := c.ListProcesses(ctx, "", 10); err == nil {
		t.Error("ListProcesses with empty scriptID should fail")
	}
	if _, err := c.GetMetrics(ctx, "script123", "HOURLY"); err == nil {
		t.Error("GetMetrics with invalid granularity should fail")
	}
}
