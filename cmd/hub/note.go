package main

import (
	"fmt"

	"hub-go/internal/hub"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

func printNotes(notes []hub.Note) {
	if len(notes) == 0 {
		fmt.Println("No notes.")
		return
	}
	for _, n := range notes {
		fmt.Printf("%s %s  %s%s\n", star(n.Favorite), n.ID, n.Title, formatTags(n.Tags))
	}
}

var noteAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := hub.NoteInput{}
		if len(args) > 0 {
			in.Title = args[0]
		}
		in.Content, _ = cmd.Flags().GetString("body")
		in.Tags, _ = cmd.Flags().GetStringSlice("tag")

		s, err := openSession(cmd, "NoteAdd")
		if err != nil {
			return err
		}
		defer s.Close()

		note, err := s.Hub().Notes.Add(s.ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", note.ID)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		favorites, _ := cmd.Flags().GetBool("favorites")

		s, err := openSession(cmd, "NoteList")
		if err != nil {
			return err
		}
		defer s.Close()

		list := s.Hub().Notes.List
		if favorites {
			list = s.Hub().Notes.Favorites
		}
		notes, err := list(s.ctx)
		if err != nil {
			return err
		}
		printNotes(notes)
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "NoteShow")
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Hub().Notes.Get(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s%s\n", n.Title, formatTags(n.Tags))
		fmt.Printf("Updated %s\n\n", n.UpdatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Println(n.Content)
		return nil
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change the title, body or tags of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "NoteEdit")
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Hub().Notes.Get(s.ctx, args[0])
		if err != nil {
			return err
		}
		in := hub.NoteInput{Title: n.Title, Content: n.Content, Tags: n.Tags}
		if cmd.Flags().Changed("title") {
			in.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("body") {
			in.Content, _ = cmd.Flags().GetString("body")
		}
		if cmd.Flags().Changed("tag") {
			in.Tags, _ = cmd.Flags().GetStringSlice("tag")
		}

		if _, err := s.Hub().Notes.Update(s.ctx, n.ID, in); err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", n.ID)
		return nil
	},
}

var noteFavCmd = &cobra.Command{
	Use:   "fav ID",
	Short: "Toggle the favorite flag of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "NoteFavorite")
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Hub().Notes.ToggleFavorite(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", star(n.Favorite), n.Title)
		return nil
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "NoteDelete")
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.Hub().Notes.Delete(s.ctx, args[0])
		if err != nil {
			return err
		}
		printRemoved("note", args[0], removed)
		return nil
	},
}

var noteSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find notes by title, body or tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "NoteSearch")
		if err != nil {
			return err
		}
		defer s.Close()

		notes, err := s.Hub().Notes.Search(s.ctx, args[0])
		if err != nil {
			return err
		}
		printNotes(notes)
		return nil
	},
}

func init() {
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteEditCmd)
	noteCmd.AddCommand(noteFavCmd)
	noteCmd.AddCommand(noteRmCmd)
	noteCmd.AddCommand(noteSearchCmd)

	for _, c := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		c.Flags().StringP("body", "b", "", "Note body")
		c.Flags().StringSliceP("tag", "t", nil, "Tag (repeatable)")
	}
	noteEditCmd.Flags().String("title", "", "New title")
	noteListCmd.Flags().BoolP("favorites", "f", false, "Only show favorites")
}
