package script

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	script "google.golang.org/api/script/v1"

	"github.com/teemow/workspacemcp/internal/auth"
)

// Client wraps the Apps Script API service
type Client struct {
	svc      *script.Service
	identity string // The identity this client operates as
}

// Identity returns the identity this client operates as
func (c *Client) Identity() string {
	return c.identity
}

// NewClient creates a new Apps Script client for the given identity
func NewClient(ctx context.Context, resolver *auth.Resolver, identity string) (*Client, error) {
	cred, err := resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	svc, err := script.NewService(ctx, option.WithHTTPClient(auth.HTTPClient(ctx, cred)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Apps Script service: %w", err)
	}

	return &Client{
		svc:      svc,
		identity: identity,
	}, nil
}

// CreateProject creates a new Apps Script project. parentID optionally
// binds the project to a Drive file (a Sheet, Doc or Form container).
func (c *Client) CreateProject(ctx context.Context, title, parentID string) (*script.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	project, err := c.svc.Projects.Create(&script.CreateProjectRequest{
		Title:    title,
		ParentId: parentID,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create script project: %w", err)
	}

	return project, nil
}

// GetProject retrieves project metadata
func (c *Client) GetProject(ctx context.Context, scriptID string) (*script.Project, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}

	project, err := c.svc.Projects.Get(scriptID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get script project %s: %w", scriptID, err)
	}

	return project, nil
}

// GetContent retrieves the project's source files
func (c *Client) GetContent(ctx context.Context, scriptID string) (*script.Content, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}

	content, err := c.svc.Projects.GetContent(scriptID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get content of script project %s: %w", scriptID, err)
	}

	return content, nil
}

// UpdateContent replaces the project's source files. The file set must
// include the manifest (appsscript.json); the API rejects updates that
// drop it.
func (c *Client) UpdateContent(ctx context.Context, scriptID string, files []*script.File) (*script.Content, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}

	content, err := c.svc.Projects.UpdateContent(scriptID, &script.Content{
		Files: files,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update content of script project %s: %w", scriptID, err)
	}

	return content, nil
}

// CreateVersion creates an immutable version of the project's current
// content
func (c *Client) CreateVersion(ctx context.Context, scriptID, description string) (*script.Version, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}

	version, err := c.svc.Projects.Versions.Create(scriptID, &script.Version{
		Description: description,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create version of script project %s: %w", scriptID, err)
	}

	return version, nil
}

// ListVersions lists all versions of a project
func (c *Client) ListVersions(ctx context.Context, scriptID string) ([]*script.Version, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}

	res, err := c.svc.Projects.Versions.List(scriptID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of script project %s: %w", scriptID, err)
	}

	return res.Versions, nil
}

// CreateDeployment deploys a version of the project.
// versionNumber 0 deploys HEAD.
func (c *Client) CreateDeployment(ctx context.Context, scriptID string, versionNumber int64, description string) (*script.Deployment, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}

	deployment, err := c.svc.Projects.Deployments.Create(scriptID, &script.DeploymentConfig{
		VersionNumber: versionNumber,
		Description:   description,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment of script project %s: %w", scriptID, err)
	}

	return deployment, nil
}

// ListDeployments lists all deployments of a project
func (c *Client) ListDeployments(ctx context.Context, scriptID string) ([]*script.Deployment, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}

	res, err := c.svc.Projects.Deployments.List(scriptID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments of script project %s: %w", scriptID, err)
	}

	return res.Deployments, nil
}

// DeleteDeployment deletes a deployment
func (c *Client) DeleteDeployment(ctx context.Context, scriptID, deploymentID string) error {
	if scriptID == "" {
		return fmt.Errorf("scriptID is required")
	}
	if deploymentID == "" {
		return fmt.Errorf("deploymentID is required")
	}

	_, err := c.svc.Projects.Deployments.Delete(scriptID, deploymentID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete deployment %s of script project %s: %w", deploymentID, scriptID, err)
	}

	return nil
}

// ListProcesses lists execution processes of a project
func (c *Client) ListProcesses(ctx context.Context, scriptID string, pageSize int64) ([]*script.GoogleAppsScriptTypeProcess, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	res, err := c.svc.Processes.List().
		Context(ctx).
		UserProcessFilterScriptId(scriptID).
		PageSize(pageSize).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes of script project %s: %w", scriptID, err)
	}

	return res.Processes, nil
}

// GetMetrics retrieves execution metrics for a project.
// granularity is "WEEKLY" or "DAILY".
func (c *Client) GetMetrics(ctx context.Context, scriptID, granularity string) (*script.Metrics, error) {
	if scriptID == "" {
		return nil, fmt.Errorf("scriptID is required")
	}
	switch granularity {
	case "":
		granularity = "WEEKLY"
	case "WEEKLY", "DAILY":
	default:
		return nil, fmt.Errorf("invalid granularity %q: must be WEEKLY or DAILY", granularity)
	}

	metrics, err := c.svc.Projects.GetMetrics(scriptID).
		Context(ctx).
		MetricsGranularity(granularity).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics of script project %s: %w", scriptID, err)
	}

	return metrics, nil
}
