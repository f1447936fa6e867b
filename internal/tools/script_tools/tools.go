package script_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	script_v1 "google.golang.org/api/script/v1"

	"github.com/teemow/workspacemcp/internal/script"
	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterScriptTools registers all Google Apps Script tools with the MCP
// server. Write operations are only registered when readOnly is false.
func RegisterScriptTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getProjectTool := mcp.NewTool("get_script_project",
		mcp.WithDescription("Get metadata of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
	)

	s.AddTool(getProjectTool, common.InstrumentedToolHandlerWithService(
		"get_script_project", "script", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetProject(ctx, request, sc)
		}))

	getContentTool := mcp.NewTool("get_script_content",
		mcp.WithDescription("Get the source files of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
	)

	s.AddTool(getContentTool, common.InstrumentedToolHandlerWithService(
		"get_script_content", "script", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetContent(ctx, request, sc)
		}))

	listVersionsTool := mcp.NewTool("list_script_versions",
		mcp.WithDescription("List the versions of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
	)

	s.AddTool(listVersionsTool, common.InstrumentedToolHandlerWithService(
		"list_script_versions", "script", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListVersions(ctx, request, sc)
		}))

	listDeploymentsTool := mcp.NewTool("list_script_deployments",
		mcp.WithDescription("List the deployments of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
	)

	s.AddTool(listDeploymentsTool, common.InstrumentedToolHandlerWithService(
		"list_script_deployments", "script", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListDeployments(ctx, request, sc)
		}))

	listProcessesTool := mcp.NewTool("list_script_processes",
		mcp.WithDescription("List recent executions of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of processes to return (default: 50)"),
		),
	)

	s.AddTool(listProcessesTool, common.InstrumentedToolHandlerWithService(
		"list_script_processes", "script", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListProcesses(ctx, request, sc)
		}))

	getMetricsTool := mcp.NewTool("get_script_metrics",
		mcp.WithDescription("Get execution metrics of a Google Apps Script project: total, active and failed executions"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
		mcp.WithString("granularity",
			mcp.Description("Metrics granularity: WEEKLY or DAILY (default: WEEKLY)"),
		),
	)

	s.AddTool(getMetricsTool, common.InstrumentedToolHandlerWithService(
		"get_script_metrics", "script", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMetrics(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createProjectTool := mcp.NewTool("create_script_project",
		mcp.WithDescription("Create a new Google Apps Script project, optionally bound to a Drive file (Sheet, Doc or Form)"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new script project"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Drive file ID to bind the script to (optional, creates a standalone script when omitted)"),
		),
	)

	s.AddTool(createProjectTool, common.InstrumentedToolHandlerWithService(
		"create_script_project", "script", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateProject(ctx, request, sc)
		}))

	updateContentTool := mcp.NewTool("update_script_content",
		mcp.WithDescription("Replace the source files of a Google Apps Script project. The file set must include the appsscript.json manifest."),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
		mcp.WithString("files",
			mcp.Required(),
			mcp.Description(`Source files as a JSON array of {"name", "type", "source"} objects; type is SERVER_JS, HTML or JSON`),
		),
	)

	s.AddTool(updateContentTool, common.InstrumentedToolHandlerWithService(
		"update_script_content", "script", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateContent(ctx, request, sc)
		}))

	createVersionTool := mcp.NewTool("create_script_version",
		mcp.WithDescription("Create an immutable version of a Google Apps Script project's current content"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
		mcp.WithString("description",
			mcp.Description("Description of the version"),
		),
	)

	s.AddTool(createVersionTool, common.InstrumentedToolHandlerWithService(
		"create_script_version", "script", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateVersion(ctx, request, sc)
		}))

	createDeploymentTool := mcp.NewTool("create_script_deployment",
		mcp.WithDescription("Deploy a version of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
		mcp.WithNumber("version_number",
			mcp.Description("Version number to deploy (default: HEAD)"),
		),
		mcp.WithString("description",
			mcp.Description("Description of the deployment"),
		),
	)

	s.AddTool(createDeploymentTool, common.InstrumentedToolHandlerWithService(
		"create_script_deployment", "script", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDeployment(ctx, request, sc)
		}))

	deleteDeploymentTool := mcp.NewTool("delete_script_deployment",
		mcp.WithDescription("Delete a deployment of a Google Apps Script project"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("script_id",
			mcp.Required(),
			mcp.Description("The ID of the script project"),
		),
		mcp.WithString("deployment_id",
			mcp.Required(),
			mcp.Description("The ID of the deployment to delete"),
		),
	)

	s.AddTool(deleteDeploymentTool, common.InstrumentedToolHandlerWithService(
		"delete_script_deployment", "script", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteDeployment(ctx, request, sc)
		}))

	return nil
}

func handleGetProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	project, err := client.GetProject(ctx, scriptID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get script project: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Script project: %s (ID: %s)\n", project.Title, project.ScriptId)
	if project.ParentId != "" {
		fmt.Fprintf(&sb, "Bound to Drive file: %s\n", project.ParentId)
	}
	fmt.Fprintf(&sb, "Created: %s\nUpdated: %s\n", project.CreateTime, project.UpdateTime)

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetContent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	content, err := client.GetContent(ctx, scriptID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get script content: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Script project %s has %d files:\n", scriptID, len(content.Files))
	for _, f := range content.Files {
		fmt.Fprintf(&sb, "\n--- %s (%s) ---\n%s\n", f.Name, f.Type, f.Source)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListVersions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	versions, err := client.ListVersions(ctx, scriptID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list versions: %v", err)), nil
	}

	if len(versions) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Script project %s has no versions yet.", scriptID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d versions of script project %s:\n", len(versions), scriptID)
	for _, v := range versions {
		fmt.Fprintf(&sb, "- Version %d: %s (created: %s)\n", v.VersionNumber, v.Description, v.CreateTime)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListDeployments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	deployments, err := client.ListDeployments(ctx, scriptID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list deployments: %v", err)), nil
	}

	if len(deployments) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Script project %s has no deployments.", scriptID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d deployments of script project %s:\n", len(deployments), scriptID)
	for _, d := range deployments {
		version := int64(0)
		description := ""
		if d.DeploymentConfig != nil {
			version = d.DeploymentConfig.VersionNumber
			description = d.DeploymentConfig.Description
		}
		fmt.Fprintf(&sb, "- %s: version %d, %s (updated: %s)\n", d.DeploymentId, version, description, d.UpdateTime)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListProcesses(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}
	pageSize := int64(50)
	if v, ok := args["page_size"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	processes, err := client.ListProcesses(ctx, scriptID, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list processes: %v", err)), nil
	}

	if len(processes) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No recent executions for script project %s.", scriptID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d executions of script project %s:\n", len(processes), scriptID)
	for _, p := range processes {
		fmt.Fprintf(&sb, "- %s: %s, %s (started: %s, duration: %s)\n",
			p.FunctionName, p.ProcessType, p.ProcessStatus, p.StartTime, p.Duration)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetMetrics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}
	granularity := ""
	if v, ok := args["granularity"].(string); ok {
		granularity = v
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	metrics, err := client.GetMetrics(ctx, scriptID, granularity)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get script metrics: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Execution metrics for script project %s:\n", scriptID)
	fmt.Fprintf(&sb, "Total executions: %s\n", sumMetricValues(metrics.TotalExecutions))
	fmt.Fprintf(&sb, "Active users: %s\n", sumMetricValues(metrics.ActiveUsers))
	fmt.Fprintf(&sb, "Failed executions: %s\n", sumMetricValues(metrics.FailedExecutions))

	return mcp.NewToolResultText(sb.String()), nil
}

func handleCreateProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	parentID := ""
	if v, ok := args["parent_id"].(string); ok {
		parentID = v
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	project, err := client.CreateProject(ctx, title, parentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create script project: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Script project %q created. Script ID: %s", project.Title, project.ScriptId)), nil
}

func handleUpdateContent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}

	files, err := parseScriptFiles(args["files"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	content, err := client.UpdateContent(ctx, scriptID, files)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update script content: %v", err)), nil
	}

	names := make([]string, 0, len(content.Files))
	for _, f := range content.Files {
		names = append(names, f.Name)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Script project %s updated. Files: %s", scriptID, strings.Join(names, ", "))), nil
}

func handleCreateVersion(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}
	description := ""
	if v, ok := args["description"].(string); ok {
		description = v
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	version, err := client.CreateVersion(ctx, scriptID, description)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create version: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Version %d created for script project %s.", version.VersionNumber, scriptID)), nil
}

func handleCreateDeployment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}
	versionNumber := int64(0)
	if v, ok := args["version_number"].(float64); ok && v > 0 {
		versionNumber = int64(v)
	}
	description := ""
	if v, ok := args["description"].(string); ok {
		description = v
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	deployment, err := client.CreateDeployment(ctx, scriptID, versionNumber, description)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create deployment: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deployment %s created for script project %s.", deployment.DeploymentId, scriptID)), nil
}

func handleDeleteDeployment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	scriptID, ok := args["script_id"].(string)
	if !ok || scriptID == "" {
		return mcp.NewToolResultError("script_id is required"), nil
	}
	deploymentID, ok := args["deployment_id"].(string)
	if !ok || deploymentID == "" {
		return mcp.NewToolResultError("deployment_id is required"), nil
	}

	client, err := script.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	if err := client.DeleteDeployment(ctx, scriptID, deploymentID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete deployment: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deployment %s deleted from script project %s.", deploymentID, scriptID)), nil
}

// scriptFileInput mirrors the JSON shape accepted by update_script_content
type scriptFileInput struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// parseScriptFiles decodes the files argument, a JSON array of file objects,
// into API file values.
func parseScriptFiles(v interface{}) ([]*script_v1.File, error) {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("files is required")
	}

	var inputs []scriptFileInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, fmt.Errorf("files must be a JSON array of {name, type, source} objects: %v", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("files must contain at least one file")
	}

	files := make([]*script_v1.File, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("every file needs a name")
		}
		switch in.Type {
		case "SERVER_JS", "HTML", "JSON":
		default:
			return nil, fmt.Errorf("invalid file type %q for %s: must be SERVER_JS, HTML or JSON", in.Type, in.Name)
		}
		files = append(files, &script_v1.File{
			Name:   in.Name,
			Type:   in.Type,
			Source: in.Source,
		})
	}

	return files, nil
}

func sumMetricValues(values []*script_v1.MetricsValue) string {
	var total uint64
	for _, v := range values {
		total += v.Value
	}
	return fmt.Sprintf("%d", total)
}
