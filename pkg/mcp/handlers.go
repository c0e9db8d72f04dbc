package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/devlog/pkg/logs"
	"github.com/unowned-ai/devlog/pkg/suggest"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the DevLog MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_devlog"), nil
}

// RegisterCreateLogTool registers the create_log tool.
func RegisterCreateLogTool(s *server.MCPServer, store *logs.Store) {
	createLog := mcp.NewTool("create_log",
		mcp.WithDescription("Records a coding session in the journal."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title of the session.")),
		mcp.WithString("content", mcp.Description("Optional free-form notes.")),
		mcp.WithString("date", mcp.Description("Optional session date, e.g. '2024-01-31' or RFC3339. Defaults to now.")),
		mcp.WithString("mood", mcp.Description("Optional mood: 😊 (happy), 😐 (neutral) or 😫 (frustrated).")),
		mcp.WithNumber("time_spent", mcp.Description("Optional minutes spent.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated list of tags.")),
	)
	s.AddTool(createLog, createLogHandler(store))
}

func createLogHandler(store *logs.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.Params.Arguments

		title, _ := args["title"].(string)
		if title == "" {
			return mcp.NewToolResultError("'title' parameter is required and must be a non-empty string."), nil
		}
		content, _ := args["content"].(string)
		mood, _ := args["mood"].(string)
		tagsStr, _ := args["tags"].(string)

		params := logs.CreateLogParams{
			Title:   title,
			Content: content,
			Mood:    logs.Mood(mood),
			Tags:    splitTags(tagsStr),
		}

		if dateStr, _ := args["date"].(string); dateStr != "" {
			date, err := logs.ParseDate(dateStr)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			params.Date = &date
		}

		if _, ok := args["time_spent"]; ok {
			minutes, err := intArgument(args, "time_spent", 0)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			params.TimeSpent = &minutes
		}

		created, err := store.CreateLog(ctx, params)
		if err != nil {
			if logs.IsValidation(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create log: %v", err)), nil
		}
		return jsonResult(created, "log"), nil
	}
}

// RegisterListLogsTool registers the list_logs tool.
func RegisterListLogsTool(s *server.MCPServer, store *logs.Store) {
	listLogs := mcp.NewTool("list_logs",
		mcp.WithDescription("Lists logs, newest date first."),
		mcp.WithNumber("skip", mcp.Description("Number of logs to skip. Defaults to 0.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of logs to return (1-100). Defaults to 10.")),
	)
	s.AddTool(listLogs, listLogsHandler(store))
}

func listLogsHandler(store *logs.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skip, err := intArgument(request.Params.Arguments, "skip", 0)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit, err := intArgument(request.Params.Arguments, "limit", defaultListLimit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if skip < 0 || limit < 1 || limit > maxListLimit {
			return mcp.NewToolResultError(fmt.Sprintf("'skip' must be >= 0 and 'limit' between 1 and %d.", maxListLimit)), nil
		}

		entries, err := store.ListLogs(ctx, skip, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list logs: %v", err)), nil
		}
		return jsonResult(entries, "logs"), nil
	}
}

// RegisterGetLogTool registers the get_log tool.
func RegisterGetLogTool(s *server.MCPServer, store *logs.Store) {
	getLog := mcp.NewTool("get_log",
		mcp.WithDescription("Retrieves a log and its tags by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the log.")),
	)
	s.AddTool(getLog, getLogHandler(store))
}

func getLogHandler(store *logs.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}

		entry, err := store.GetLog(ctx, id)
		if errors.Is(err, logs.ErrLogNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Log with id %d not found.", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving log %d: %v", id, err)), nil
		}
		return jsonResult(entry, "log"), nil
	}
}

// RegisterDeleteLogTool registers the delete_log tool.
func RegisterDeleteLogTool(s *server.MCPServer, store *logs.Store) {
	deleteLog := mcp.NewTool("delete_log",
		mcp.WithDescription("Deletes a log and its tag associations."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the log to delete.")),
	)
	s.AddTool(deleteLog, deleteLogHandler(store))
}

func deleteLogHandler(store *logs.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}

		err := store.DeleteLog(ctx, id)
		if errors.Is(err, logs.ErrLogNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Log with id %d not found.", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete log %d: %v", id, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Log %d deleted.", id)), nil
	}
}

// RegisterListTagsTool registers the list_tags tool.
func RegisterListTagsTool(s *server.MCPServer, store *logs.Store) {
	listTags := mcp.NewTool("list_tags",
		mcp.WithDescription("Lists every tag used by a log."),
	)
	s.AddTool(listTags, listTagsHandler(store))
}

func listTagsHandler(store *logs.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tags, err := store.ListTags(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tags: %v", err)), nil
		}
		return jsonResult(tags, "tags"), nil
	}
}

// RegisterGetStatsTool registers the get_stats tool.
func RegisterGetStatsTool(s *server.MCPServer, store *logs.Store) {
	getStats := mcp.NewTool("get_stats",
		mcp.WithDescription("Returns total logs, total and average minutes, and the three most used tags."),
	)
	s.AddTool(getStats, getStatsHandler(store))
}

func getStatsHandler(store *logs.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := store.GetStats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to compute stats: %v", err)), nil
		}
		return jsonResult(stats, "stats"), nil
	}
}

// RegisterGetSuggestionTool registers the get_suggestion tool.
func RegisterGetSuggestionTool(s *server.MCPServer, service *suggest.Service) {
	getSuggestion := mcp.NewTool("get_suggestion",
		mcp.WithDescription("Suggests what to learn next based on the past week of logs."),
	)
	s.AddTool(getSuggestion, getSuggestionHandler(service))
}

func getSuggestionHandler(service *suggest.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		suggestion, err := service.GetSuggestion(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get suggestion: %v", err)), nil
		}
		return mcp.NewToolResultText(suggestion.Suggestion), nil
	}
}

// RegisterGetMoodInsightTool registers the get_mood_insight tool.
func RegisterGetMoodInsightTool(s *server.MCPServer, service *suggest.Service) {
	getMoodInsight := mcp.NewTool("get_mood_insight",
		mcp.WithDescription("Observes how moods relate to the tags of recent logs."),
	)
	s.AddTool(getMoodInsight, getMoodInsightHandler(service))
}

func getMoodInsightHandler(service *suggest.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		insight, err := service.GetMoodInsight(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get mood insight: %v", err)), nil
		}
		return mcp.NewToolResultText(insight.Insight), nil
	}
}

func requiredID(request mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	if _, ok := request.Params.Arguments["id"]; !ok {
		return 0, mcp.NewToolResultError("'id' parameter is required.")
	}
	id, err := intArgument(request.Params.Arguments, "id", 0)
	if err != nil {
		return 0, mcp.NewToolResultError(err.Error())
	}
	return int64(id), nil
}
