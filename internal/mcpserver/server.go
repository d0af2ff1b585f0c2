// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the workspace queries as tools over the stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/quill/internal/noteservice"
)

const workspacesURI = "quill://workspaces"

// Server wraps the MCP server with the quill tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Quill",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	keyOpts := []mcp.ToolOption{
		mcp.WithString("workspace", mcp.Description("Absolute workspace root. Defaults to the first configured workspace.")),
		mcp.WithString("createdKey", mcp.Description("Frontmatter key holding the created date")),
		mcp.WithString("updatedKey", mcp.Description("Frontmatter key holding the updated date")),
	}

	s.mcp.AddTool(mcp.NewTool("list_notes", append([]mcp.ToolOption{
		mcp.WithDescription("List notes whose creation time lies strictly between start and end "+
			"(milliseconds since the Unix epoch), optionally restricted to one group."),
		mcp.WithNumber("start", mcp.Description("Exclusive lower bound in ms. Defaults to -1.")),
		mcp.WithNumber("end", mcp.Description("Exclusive upper bound in ms. Defaults to the largest int64.")),
		mcp.WithNumber("groupId", mcp.Description("Only notes of the group with this id (see list_groups)")),
	}, keyOpts...)...), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List the groups (first-level folders) of a workspace that contain at least one note."),
		mcp.WithString("workspace", mcp.Description("Absolute workspace root. Defaults to the first configured workspace.")),
	), s.listGroups)

	s.mcp.AddTool(mcp.NewTool("search_notes", append([]mcp.ToolOption{
		mcp.WithDescription("Search note file names and note content lines with a regular expression. "+
			"Only notes created between start and end (inclusive, ms since epoch) are searched."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Regular expression, used verbatim")),
		mcp.WithNumber("start", mcp.Description("Inclusive lower bound in ms. Defaults to 0.")),
		mcp.WithNumber("end", mcp.Description("Inclusive upper bound in ms. Defaults to the largest int64.")),
	}, keyOpts...)...), s.searchNotes)

	s.mcp.AddResource(
		mcp.NewResource(workspacesURI, "Workspaces",
			mcp.WithResourceDescription("Workspace roots this server may read."),
			mcp.WithMIMEType("application/json"),
		),
		s.readWorkspacesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := optionalInt(req, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := optionalInt(req, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawID, err := optionalInt(req, "groupId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var groupID *uint32
	if rawID != nil {
		if *rawID < 0 || *rawID > math.MaxUint32 {
			return mcp.NewToolResultError(fmt.Sprintf("groupId out of range: %d", *rawID)), nil
		}
		id := uint32(*rawID)
		groupID = &id
	}

	notes, err := s.svc.ListNotes(ctx, noteservice.NotesParams{
		Workspace:  req.GetString("workspace", ""),
		CreatedKey: req.GetString("createdKey", ""),
		UpdatedKey: req.GetString("updatedKey", ""),
		Start:      start,
		End:        end,
		GroupID:    groupID,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes)
}

func (s *Server) listGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.svc.ListGroups(ctx, req.GetString("workspace", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(groups)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := optionalInt(req, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := optionalInt(req, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := s.svc.Search(ctx, noteservice.SearchParams{
		Pattern:    pattern,
		Workspace:  req.GetString("workspace", ""),
		CreatedKey: req.GetString("createdKey", ""),
		UpdatedKey: req.GetString("updatedKey", ""),
		Start:      start,
		End:        end,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) readWorkspacesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(s.svc.Roots())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      workspacesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// optionalInt reads an integer argument. JSON numbers arrive as float64;
// decimal strings are accepted too so that values above 2^53 survive.
func optionalInt(req mcp.CallToolRequest, key string) (*int64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var v int64
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		v = int64(n)
	case int:
		v = int64(n)
	case int64:
		v = n
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		v = parsed
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		v = parsed
	default:
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}
