package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/schoolward/timetable-api/internal/client/slotapi"
	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/internal/service"
	"github.com/schoolward/timetable-api/pkg/config"
)

type slotFile struct {
	SubjectGroupID string                `json:"subject_group"`
	Slots          []models.ScheduleSlot `json:"slots"`
}

func main() {
	var (
		baseURL      string
		token        string
		group        string
		filePath     string
		dryRun       bool
		confirmClear bool
		timeout      time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080/api/v1", "Timetable API base URL")
	flag.StringVar(&token, "token", os.Getenv("SLOT_API_TOKEN"), "Bearer token for staff endpoints")
	flag.StringVar(&group, "group", "", "Subject group ID (overrides the file's subject_group)")
	flag.StringVar(&filePath, "file", "", "Path to the JSON file with the desired weekly slots")
	flag.BoolVar(&dryRun, "dry-run", false, "Print the operation plan without applying it")
	flag.BoolVar(&confirmClear, "confirm-clear", false, "Allow deleting the group's entire persisted schedule")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if filePath == "" {
		log.Fatal("missing -file: nothing to sync")
	}

	desired, err := loadSlotFile(filePath)
	if err != nil {
		log.Fatalf("failed to load slot file: %v", err)
	}
	if group == "" {
		group = desired.SubjectGroupID
	}
	if group == "" {
		log.Fatal("missing subject group: pass -group or set subject_group in the file")
	}

	client := slotapi.New(config.SlotAPIConfig{BaseURL: baseURL, Token: token, Timeout: timeout})
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	sync := service.NewSlotSyncService(client, client, config.TimetableConfig{
		DefaultStartTime: "09:00",
		DefaultEndTime:   "10:30",
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := sync.LoadForGroup(ctx, group)
	if err != nil {
		log.Fatalf("failed to load persisted slots: %v", err)
	}

	session.Editor.ReplaceAll(desired.Slots)

	if invalid := sync.Validate(session); len(invalid) > 0 {
		for _, inv := range invalid {
			fmt.Printf("INVALID slot %d: %s %s-%s (end must be after start)\n",
				inv.Index, models.DayName(inv.Slot.DayOfWeek), inv.Slot.StartTime, inv.Slot.EndTime)
		}
		os.Exit(1)
	}

	ops := service.ReconcileSlots(session.PersistedSlots(), session.Editor.Slots())
	printPlan(group, session.PersistedSlots(), ops)

	if len(ops) == 0 {
		fmt.Println("Nothing to do.")
		return
	}
	if dryRun {
		fmt.Println("Dry run: no operations applied.")
		return
	}
	if sync.RequiresClearConfirmation(session) && !confirmClear {
		log.Fatal("refusing to clear the whole schedule without -confirm-clear")
	}

	if err := sync.Save(ctx, session); err != nil {
		var opErr *service.SyncOperationError
		if errors.As(err, &opErr) {
			log.Fatalf("sync stopped at operation %d (%s): %v\nearlier operations stand; re-run after fixing the cause",
				opErr.Index, opErr.Op.Kind, opErr.Err)
		}
		log.Fatalf("sync failed: %v", err)
	}

	fmt.Printf("Applied %d operation(s). Group %s now has %d slot(s).\n",
		len(ops), group, session.Editor.Len())
}

func loadSlotFile(path string) (*slotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file slotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func printPlan(group string, persisted []models.ScheduleSlot, ops []models.SyncOperation) {
	fmt.Println("Schedule Sync Plan")
	fmt.Println("==================")
	fmt.Printf("Subject group: %s (%d persisted slot(s))\n", group, len(persisted))
	for i, op := range ops {
		switch op.Kind {
		case models.SyncOpDelete:
			fmt.Printf("%2d. DELETE %s\n", i, op.ID)
		case models.SyncOpCreate:
			fmt.Printf("%2d. CREATE %s %s-%s%s\n", i,
				models.DayName(op.Slot.DayOfWeek), op.Slot.StartTime, op.Slot.EndTime, roomSuffix(op.Slot))
		case models.SyncOpUpdate:
			fmt.Printf("%2d. UPDATE %s -> %s %s-%s%s\n", i, op.ID,
				models.DayName(op.Slot.DayOfWeek), op.Slot.StartTime, op.Slot.EndTime, roomSuffix(op.Slot))
		}
	}
}

func roomSuffix(slot *models.ScheduleSlot) string {
	if slot == nil || slot.Room == nil || *slot.Room == "" {
		return ""
	}
	return " @ " + *slot.Room
}
