package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/trailmark/trailmark/internal/backup"
	"github.com/trailmark/trailmark/internal/models"
	"github.com/trailmark/trailmark/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: store reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	// Check 2: schema version
	if storeReachable {
		doc := ctx.Store.Document()
		if doc != nil && doc.Version == models.CurrentVersion {
			fmt.Printf("✓ Schema version: OK (v%d)\n", doc.Version)
		} else {
			fmt.Printf("❌ Schema version: FAIL\n")
			hasError = true
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (store not reachable)\n")
	}

	// Check 3: document invariants
	if storeReachable {
		validator := validation.New()
		result := validator.ValidateDocument(ctx.Store.Document(), ctx.Catalog)
		if result.HasConflicts() {
			fmt.Printf("❌ Document validation: FAIL\n")
			for _, line := range strings.Split(strings.TrimSpace(result.FormatReport()), "\n") {
				fmt.Printf("   %s\n", line)
			}
			hasError = true
		} else {
			fmt.Printf("✓ Document validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Document validation: SKIPPED (store not reachable)\n")
	}

	// Check 4: backups present (warning only)
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) == 0 {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   No backups found; one is created before imports and resets\n")
	} else {
		fmt.Printf("✓ Backups present: OK (%d, newest %s)\n",
			len(backups), backups[0].Timestamp.Format("2006-01-02 15:04"))
	}

	// Check 5: concurrent processes (warning only). Two processes on the
	// same store overwrite each other last-write-wins.
	if others, err := otherTrailmarkProcesses(); err == nil && len(others) > 0 {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %d other trailmark process(es) running; the last writer wins\n", len(others))
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	// Check 6: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func otherTrailmarkProcesses() ([]ps.Process, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	self := os.Getpid()
	name := filepath.Base(os.Args[0])

	var others []ps.Process
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == name {
			others = append(others, p)
		}
	}
	return others, nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset < -14*3600 || offset > 14*3600 {
		return fmt.Errorf("timezone offset out of range")
	}
	return nil
}
