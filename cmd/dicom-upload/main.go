// Command dicom-upload submits a set of DICOM files (or whole study
// folders) to the forwarding gateway in one batch, prints the batch
// summary, and optionally opens the imaging viewer on the resolved study.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/skagos/emr-front/internal/batch"
	"github.com/skagos/emr-front/internal/clinic"
	"github.com/skagos/emr-front/internal/config"
	"github.com/skagos/emr-front/internal/viewer"
)

func main() {
	_ = godotenv.Load()

	gatewayURL := flag.String("gateway", config.GetEnv("GATEWAY_URL", "http://localhost:5001"), "base URL of the forwarding gateway")
	viewerURL := flag.String("viewer", config.GetEnv("VIEWER_URL", "http://localhost:8042/ohif/viewer"), "base URL of the imaging viewer (empty to disable)")
	clinicURL := flag.String("clinic", config.GetEnv("CLINIC_API_URL", "http://localhost:8080"), "base URL of the clinic backend")
	patientID := flag.String("patient", "", "patient ID; when set, a visit linked to the resolved study is created")
	openViewer := flag.Bool("open", false, "open the viewer on the resolved study")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dicom-upload [flags] <file-or-dir>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	files, err := collect(flag.Args())
	if err != nil {
		slog.Error("Failed to read selection", "error", err)
		os.Exit(1)
	}

	var launcher viewer.Launcher = viewer.NopLauncher{}
	if *openViewer {
		launcher = viewer.BrowserLauncher{}
	}

	uploader := batch.NewUploader(*gatewayURL, *viewerURL, &http.Client{Timeout: *timeout}, launcher)

	draft := &clinic.VisitDraft{
		PatientID: *patientID,
		VisitDate: time.Now().Format("2006-01-02"),
	}
	res, err := uploader.Run(context.Background(), files, draft)
	if err != nil {
		slog.Error("Batch failed to run", "error", err)
		os.Exit(1)
	}

	fmt.Println(res.Summary)
	if res.ResolvedStudyInstanceUID != "" {
		fmt.Printf("Study Instance UID: %s\n", res.ResolvedStudyInstanceUID)
	}

	if *patientID != "" && res.ResolvedStudyInstanceUID != "" {
		clinicClient := clinic.NewClient(*clinicURL, *timeout)
		visit, err := clinicClient.CreateVisit(context.Background(), draft)
		if err != nil {
			slog.Error("Failed to create visit", "patient", *patientID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Created visit %s for patient %s\n", visit.ID, *patientID)
	}

	if res.FailureCount > 0 {
		os.Exit(1)
	}
}

// collect expands the argument list into an ordered selection. Arguments
// are visited in the order given; directories contribute their regular
// files sorted by name.
func collect(args []string) ([]batch.File, error) {
	var files []batch.File
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			data, err := os.ReadFile(arg)
			if err != nil {
				return nil, err
			}
			files = append(files, batch.File{Name: filepath.Base(arg), Data: data})
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(arg, entry.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, batch.File{Name: entry.Name(), Data: data})
		}
	}
	return files, nil
}
