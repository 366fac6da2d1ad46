package main

import (
	"fmt"
	"strings"
	"time"
)

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func star(on bool) string {
	if on {
		return "*"
	}
	return " "
}

func formatMinutes(d time.Duration) string {
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " #" + strings.Join(tags, " #")
}

func printRemoved(kind, id string, removed bool) {
	if removed {
		fmt.Printf("Deleted %s %s\n", kind, id)
	} else {
		fmt.Printf("No %s %s\n", kind, id)
	}
}
