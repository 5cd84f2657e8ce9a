package main

import (
	"encoding/json"
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/infrastructure/storage"
	"os"
	"strconv"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "info":
		withJournal(func(j *domain.JournalSession) {
			fmt.Printf("run:     %s\n", j.RunID)
			fmt.Printf("started: %s\n", time.UnixMilli(j.StartedAt).Format(time.RFC3339))
			fmt.Printf("entries: %d\n", len(j.Entries))

			counts := make(map[domain.EventType]int)
			for _, e := range j.Entries {
				counts[e.Event]++
			}
			for ev := domain.EventEnteredInstance; ev <= domain.EventFrame; ev++ {
				if counts[ev] > 0 {
					fmt.Printf("  %-20s %d\n", ev, counts[ev])
				}
			}
		})
	case "events":
		withJournal(func(j *domain.JournalSession) {
			for _, e := range j.Entries {
				if e.Event == domain.EventFrame {
					continue
				}
				fmt.Printf("%10d  %-20s %s\n", e.At, e.Event, e.Payload)
			}
		})
	case "json":
		withJournal(func(j *domain.JournalSession) {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(j); err != nil {
				fmt.Printf("Encode failed: %v\n", err)
			}
		})
	case "time":
		if len(os.Args) < 3 {
			fmt.Println("Usage: journaldump time <unix_ms>")
			return
		}
		ms, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid timestamp: %v\n", err)
			return
		}
		fmt.Println(time.UnixMilli(ms).Format(time.RFC3339))
	default:
		printHelp()
	}
}

func withJournal(fn func(j *domain.JournalSession)) {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: journaldump %s <file.nlj>\n", os.Args[1])
		return
	}
	j, err := storage.Load(os.Args[2])
	if err != nil {
		fmt.Printf("Cannot read journal: %v\n", err)
		os.Exit(1)
	}
	fn(j)
}

func printHelp() {
	fmt.Println(`Journal Utility - просмотр журналов трекера
Commands:
  info <file>      - заголовок журнала и количество событий по типам
  events <file>    - все события, кроме кадров
  json <file>      - журнал целиком в JSON
  time <unix_ms>   - преобразовать время начала забега в читаемый формат`)
}
