// ABOUTME: MCP tool definitions and registration for the proposal server
// ABOUTME: Defines JSON schemas for proposal generation, portfolio, history, and document tools
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. userID scopes
// every tool call, since MCP clients act on behalf of a single freelancer.
func RegisterTools(server *mcpserver.MCPServer, services *core.Services, userID string, logger *log.Logger) *Handlers {
	handlers := NewHandlers(services, userID, logger)

	// 1. generate_proposal - match the portfolio and write a proposal
	server.AddTool(mcp.Tool{
		Name:        "generate_proposal",
		Description: "Generate a freelance proposal for a job description. Relevant portfolio projects are found by semantic similarity and cited with links.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"job_description": map[string]interface{}{
					"type":        "string",
					"description": "Full job posting text (at least 50 characters)",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional user whose portfolio is matched",
				},
			},
			Required: []string{"job_description"},
		},
	}, handlers.GenerateProposal)

	// 2. generate_custom_proposal - cite hand-picked projects
	server.AddTool(mcp.Tool{
		Name:        "generate_custom_proposal",
		Description: "Generate a proposal that cites exactly the given portfolio projects, optionally addressing the client by name and adding profile links.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"job_description": map[string]interface{}{
					"type":        "string",
					"description": "Full job posting text (at least 50 characters)",
				},
				"project_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Portfolio project IDs to cite",
				},
				"client_name": map[string]interface{}{
					"type":        "string",
					"description": "Client name for the greeting",
				},
				"include_github": map[string]interface{}{
					"type":        "boolean",
					"description": "Mention the GitHub profile link",
				},
				"include_stackoverflow": map[string]interface{}{
					"type":        "boolean",
					"description": "Mention the Stack Overflow profile link",
				},
				"include_website": map[string]interface{}{
					"type":        "boolean",
					"description": "Mention the personal website",
				},
			},
			Required: []string{"job_description", "project_ids"},
		},
	}, handlers.GenerateCustomProposal)

	// 3. find_similar_projects - rank the portfolio without writing anything
	server.AddTool(mcp.Tool{
		Name:        "find_similar_projects",
		Description: "Rank portfolio projects by similarity to a job description.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"job_description": map[string]interface{}{
					"type":        "string",
					"description": "Job posting text to match against",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of projects to return (default: 3)",
					"default":     3,
				},
			},
			Required: []string{"job_description"},
		},
	}, handlers.FindSimilarProjects)

	// 4. add_portfolio_project - analyze and store a project
	server.AddTool(mcp.Tool{
		Name:        "add_portfolio_project",
		Description: "Add a portfolio project. Tags, technologies, type, complexity, summary, and embedding are derived automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Project name",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "What the project does and how it was built (at least 50 characters)",
				},
				"github_url":    map[string]interface{}{"type": "string", "description": "Repository link"},
				"live_url":      map[string]interface{}{"type": "string", "description": "Live site link"},
				"app_store_url": map[string]interface{}{"type": "string", "description": "App store link"},
				"featured": map[string]interface{}{
					"type":        "boolean",
					"description": "Mark the project as featured",
				},
			},
			Required: []string{"name", "description"},
		},
	}, handlers.AddPortfolioProject)

	// 5. list_portfolio
	server.AddTool(mcp.Tool{
		Name:        "list_portfolio",
		Description: "List portfolio projects, optionally filtered by project type.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project_type": map[string]interface{}{
					"type":        "string",
					"description": "Filter by type",
					"enum":        projectTypeNames(),
				},
			},
		},
	}, handlers.ListPortfolio)

	// 6. list_proposals
	server.AddTool(mcp.Tool{
		Name:        "list_proposals",
		Description: "List previously generated proposals, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default: 1)",
					"default":     1,
				},
			},
		},
	}, handlers.ListProposals)

	// 7. search_proposals
	server.AddTool(mcp.Tool{
		Name:        "search_proposals",
		Description: "Search proposals by job title, job description, or proposal text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive text to look for",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchProposals)

	// 8. proposal_stats
	server.AddTool(mcp.Tool{
		Name:        "proposal_stats",
		Description: "Summarize proposal volume and submission outcomes.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ProposalStats)

	// 9. add_document - store reference material for search_documents
	server.AddTool(mcp.Tool{
		Name:        "add_document",
		Description: "Store a text document (rate card, notes, contract) so it can be searched later. A summary and embedding are generated automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Document name, usually the file name",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full document text",
				},
				"mime_type": map[string]interface{}{
					"type":        "string",
					"description": "Content type (default: text/plain)",
				},
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Optional ID; an existing document with this ID is replaced",
				},
			},
			Required: []string{"name", "text"},
		},
	}, handlers.AddDocument)

	// 10. search_documents - answer a question from stored documents
	server.AddTool(mcp.Tool{
		Name:        "search_documents",
		Description: "Answer a question using the most similar stored documents as context. Returns the answer and the documents it drew on.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of documents used as context (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDocuments)

	// 11. list_documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List stored documents, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default: 1)",
					"default":     1,
				},
			},
		},
	}, handlers.ListDocuments)

	logging.Component(logger, "mcp").Debug("registered tools", "count", 11, "user", userID)
	return handlers
}
