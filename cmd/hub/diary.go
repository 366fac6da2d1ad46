package main

import (
	"fmt"
	"strings"

	"hub-go/internal/hub"

	"github.com/spf13/cobra"
)

var diaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Keep a diary",
}

var diaryAddCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Write an entry for today, or --date",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := hub.DiaryInput{Content: strings.Join(args, " ")}
		in.Date, _ = cmd.Flags().GetString("date")
		in.Title, _ = cmd.Flags().GetString("title")
		in.Mood, _ = cmd.Flags().GetString("mood")
		in.Tags, _ = cmd.Flags().GetStringSlice("tag")

		s, err := openSession(cmd, "DiaryAdd")
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.Hub().Diary.Add(s.ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s for %s\n", e.ID, e.Date)
		return nil
	},
}

var diaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, _ := cmd.Flags().GetString("mood")
		date, _ := cmd.Flags().GetString("date")

		s, err := openSession(cmd, "DiaryList")
		if err != nil {
			return err
		}
		defer s.Close()

		var entries []hub.DiaryEntry
		switch {
		case mood != "":
			entries, err = s.Hub().Diary.ByMood(s.ctx, mood)
		case date != "":
			entries, err = s.Hub().Diary.OnDate(s.ctx, date)
		default:
			entries, err = s.Hub().Diary.List(s.ctx)
		}
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, e := range entries {
			title := e.Title
			if title == "" {
				title = firstLine(e.Content)
			}
			mood := ""
			if e.Mood != "" {
				mood = " [" + e.Mood + "]"
			}
			fmt.Printf("%s  %s  v%d  %s%s%s\n", e.Date, e.ID, e.EntryVersion, title, mood, formatTags(e.Tags))
		}
		return nil
	},
}

var diaryEditCmd = &cobra.Command{
	Use:   "edit ID [TEXT...]",
	Short: "Rewrite an entry",
	Long: "Rewrite an entry. Fields without a flag keep their value. With --version the\n" +
		"edit is refused if the entry changed since that version was read.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetInt("version")

		s, err := openSession(cmd, "DiaryEdit")
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.Hub().Diary.Get(s.ctx, args[0])
		if err != nil {
			return err
		}
		in := hub.DiaryInput{Date: e.Date, Title: e.Title, Content: e.Content, Mood: e.Mood, Tags: e.Tags}
		if len(args) > 1 {
			in.Content = strings.Join(args[1:], " ")
		}
		if cmd.Flags().Changed("date") {
			in.Date, _ = cmd.Flags().GetString("date")
		}
		if cmd.Flags().Changed("title") {
			in.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("mood") {
			in.Mood, _ = cmd.Flags().GetString("mood")
		}
		if cmd.Flags().Changed("tag") {
			in.Tags, _ = cmd.Flags().GetStringSlice("tag")
		}

		updated, err := s.Hub().Diary.Edit(s.ctx, e.ID, version, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s (v%d)\n", updated.ID, updated.EntryVersion)
		return nil
	},
}

var diaryRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "DiaryDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Diary.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("entry", args[0], removed)
		return nil
	},
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line
}

func init() {
	diaryCmd.AddCommand(diaryAddCmd)
	diaryCmd.AddCommand(diaryListCmd)
	diaryCmd.AddCommand(diaryEditCmd)
	diaryCmd.AddCommand(diaryRmCmd)

	moods := strings.Join(hub.Moods, ", ")
	for _, c := range []*cobra.Command{diaryAddCmd, diaryEditCmd} {
		c.Flags().StringP("date", "d", "", "Entry date (YYYY-MM-DD, default today)")
		c.Flags().String("title", "", "Entry title")
		c.Flags().StringP("mood", "m", "", "Mood: "+moods)
		c.Flags().StringSliceP("tag", "t", nil, "Tag (repeatable)")
	}
	diaryEditCmd.Flags().Int("version", 0, "Expected entry version")
	diaryListCmd.Flags().StringP("mood", "m", "", "Only entries with this mood")
	diaryListCmd.Flags().StringP("date", "d", "", "Only entries for this date")
}
