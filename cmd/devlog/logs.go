package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/devlog/pkg/logs"
)

func printJSON(w io.Writer, v any, what string) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format %s output: %w", what, err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid log id '%s': must be an integer", arg)
	}
	return id, nil
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage logs",
	Long:  `Provides commands for creating, listing, getting, and deleting logs of coding sessions.`,
}

var logCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a coding session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		dateStr, _ := cmd.Flags().GetString("date")
		mood, _ := cmd.Flags().GetString("mood")
		tagsStr, _ := cmd.Flags().GetString("tags")

		params := logs.CreateLogParams{
			Title:   title,
			Content: content,
			Mood:    logs.Mood(mood),
			Tags:    strings.Split(tagsStr, ","),
		}
		if dateStr != "" {
			date, err := logs.ParseDate(dateStr)
			if err != nil {
				return err
			}
			params.Date = &date
		}
		if cmd.Flags().Changed("time") {
			minutes, _ := cmd.Flags().GetInt("time")
			params.TimeSpent = &minutes
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		created, err := store.CreateLog(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("failed to create log: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Log created successfully:")
		return printJSON(cmd.OutOrStdout(), created, "log")
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ListLogs(cmd.Context(), skip, limit)
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No logs found.")
			return nil
		}
		return printJSON(cmd.OutOrStdout(), entries, "logs")
	},
}

var logGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific log by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.GetLog(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get log %d: %w", id, err)
		}
		return printJSON(cmd.OutOrStdout(), entry, "log")
	},
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a log and its tag associations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteLog(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete log %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Log %d deleted successfully.\n", id)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		tags, err := store.ListTags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
			return nil
		}
		return printJSON(cmd.OutOrStdout(), tags, "tags")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and the most used tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), stats, "stats")
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest what to focus on next, based on the past week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		suggestion, err := newService(store).GetSuggestion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), suggestion.Suggestion)
		return nil
	},
}

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Observe how your moods relate to what you work on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		insight, err := newService(store).GetMoodInsight(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), insight.Insight)
		return nil
	},
}

func initLogsCmd() {
	logCreateCmd.Flags().StringP("title", "t", "", "Title of the log (required)")
	logCreateCmd.MarkFlagRequired("title")
	logCreateCmd.Flags().StringP("content", "c", "", "Notes about the session")
	logCreateCmd.Flags().StringP("date", "d", "", "Session date, e.g. 2024-01-31 or RFC3339 (default: now)")
	logCreateCmd.Flags().StringP("mood", "m", "", "Mood: happy, neutral, frustrated (or 😊 😐 😫)")
	logCreateCmd.Flags().Int("time", 0, "Minutes spent")
	logCreateCmd.Flags().String("tags", "", "Comma-separated list of tags")

	logListCmd.Flags().Int("skip", 0, "Number of logs to skip")
	logListCmd.Flags().Int("limit", 10, "Maximum number of logs to show")

	logsCmd.AddCommand(logCreateCmd, logListCmd, logGetCmd, logDeleteCmd)
}
