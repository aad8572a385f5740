package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"finmodel/pkg/config"
	"finmodel/pkg/core/balance"
	"finmodel/pkg/core/compile"
	"finmodel/pkg/core/eval"
	"finmodel/pkg/core/modelfile"
	"finmodel/pkg/core/store"
	"finmodel/pkg/core/validate"
	"finmodel/pkg/models"
	"finmodel/pkg/sink/xlsx"
)

func main() {
	modelPath := flag.String("model", "", "model file to export (Hjson or JSON); empty uses the built-in demo model")
	outPath := flag.String("out", "", "workbook output path (default from EXPORT_PATH)")
	snapshotName := flag.String("snapshot", "", "also store the recomputed model under this snapshot name (needs DATABASE_URL)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *outPath == "" {
		*outPath = cfg.ExportPath
	}

	var m *models.Model
	if *modelPath != "" {
		m, err = modelfile.Load(*modelPath)
		if err != nil {
			log.Fatalf("Load failed: %v", err)
		}
	} else {
		m = models.NewDemoModel()
	}
	m.Normalize()

	if issues := validate.ValidateStructure(m); len(issues) > 0 {
		for _, issue := range issues {
			log.Printf("Structure: %s %s: %s", issue.Statement, issue.LineID, issue.Message)
		}
		log.Fatal("Model structure is invalid.")
	}

	// 1. Settle every projected period before anything reads the numbers.
	for _, res := range eval.RecomputeAll(m) {
		if !res.Converged {
			log.Fatalf("Period %s did not settle after %d iterations; still moving: %v",
				res.Period, res.Iterations, res.Unsettled)
		}
	}

	// 2. Balance report.
	fmt.Println("BALANCE CHECK")
	for _, c := range balance.Check(m, cfg.BalanceTolerance) {
		status := "OK"
		if !c.Balanced {
			status = fmt.Sprintf("OFF BY %.2f", c.Difference)
		}
		fmt.Printf("  %-10s  assets %12.2f  liab+equity %12.2f  %s\n",
			c.Period, c.Assets, c.LiabilitiesEquity, status)
	}

	fmt.Println("LINKAGE CHECK")
	for _, report := range validate.ValidateAll(m, cfg.BalanceTolerance) {
		status := "OK"
		if !report.AllPassed {
			status = "FAILED: " + fmt.Sprint(report.FailedChecks)
		}
		fmt.Printf("  %-10s  %s\n", report.Period, status)
	}

	// 3. Compile into the workbook.
	wb, err := xlsx.New(m)
	if err != nil {
		log.Fatalf("Workbook layout failed: %v", err)
	}
	if err := compile.Compile(m, wb); err != nil {
		log.Fatalf("Compile failed: %v", err)
	}
	if err := wb.Save(*outPath); err != nil {
		log.Fatalf("Save failed: %v", err)
	}
	fmt.Printf("Workbook written to %s\n", *outPath)

	// 4. Optional snapshot.
	if *snapshotName != "" {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Database init failed: %v", err)
		}
		defer store.Close()
		repo := store.NewSnapshotRepo()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Schema setup failed: %v", err)
		}
		id, err := repo.Save(ctx, *snapshotName, m)
		if err != nil {
			log.Fatalf("Snapshot save failed: %v", err)
		}
		fmt.Printf("Snapshot %q stored as %s\n", *snapshotName, id)
	}
}
