// Package batch drives a multi-file DICOM upload through the forwarding
// gateway: files go up one at a time, per-file failures are tolerated and
// recorded, and a successful batch is correlated back to a single Study
// Instance UID via the gateway's study-info lookup.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/skagos/emr-front/internal/clinic"
	"github.com/skagos/emr-front/internal/orthanc"
	"github.com/skagos/emr-front/internal/viewer"
)

const (
	dicomExt           = ".dcm"
	maxFailedInSummary = 5
)

// ErrBusy is returned when Run is called while a batch is already in flight.
var ErrBusy = errors.New("batch: upload already in progress")

// File is one element of the caller's ordered selection.
type File struct {
	Name string
	Data []byte
}

// Outcome records how a single file's upload ended.
type Outcome struct {
	FileName   string
	Succeeded  bool
	HTTPStatus int // 0 when no response was received
	Store      *orthanc.StoreResult
}

// Marker classifies the batch for the status line.
type Marker string

const (
	MarkerSuccess Marker = "✅"
	MarkerFailure Marker = "❌"
	MarkerMixed   Marker = "⚠"
)

// Result aggregates one batch run. It is built fresh per run and never
// mutated afterwards.
type Result struct {
	SuccessCount int
	FailureCount int
	// FailedFiles holds annotated file names in processing order.
	FailedFiles []string
	// StudyIDs holds the distinct Orthanc study IDs observed on successful
	// uploads, in first-observed order.
	StudyIDs                 []string
	ResolvedStudyInstanceUID string
	Marker                   Marker
	Summary                  string
}

// Uploader runs upload batches against a forwarding gateway. A single
// Uploader admits one batch at a time; concurrent Run calls beyond the
// first fail with ErrBusy.
type Uploader struct {
	gatewayURL string
	viewerURL  string
	httpClient *http.Client
	launcher   viewer.Launcher
	logger     *slog.Logger
	busy       atomic.Bool
}

// NewUploader creates an Uploader. viewerURL may be empty to disable the
// viewer side effect; launcher and client may be nil for defaults.
func NewUploader(gatewayURL, viewerURL string, client *http.Client, launcher viewer.Launcher) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if launcher == nil {
		launcher = viewer.NopLauncher{}
	}
	return &Uploader{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		viewerURL:  viewerURL,
		httpClient: client,
		launcher:   launcher,
		logger:     slog.Default(),
	}
}

// Busy reports whether a batch is currently in flight.
func (u *Uploader) Busy() bool {
	return u.busy.Load()
}

// Run uploads the selection sequentially, resolves the first observed study
// to its Study Instance UID, writes the UID into draft (when non-nil), and
// returns the aggregated result with a marker-coded summary. Files whose
// name does not end in .dcm are skipped without a network call. Per-file
// failures never abort the batch.
func (u *Uploader) Run(ctx context.Context, files []File, draft *clinic.VisitDraft) (*Result, error) {
	if len(files) == 0 {
		return &Result{Summary: "Please select DICOM files or a study folder first."}, nil
	}

	if !u.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer u.busy.Store(false)

	res := &Result{}
	seen := make(map[string]bool)

	for _, f := range files {
		if !strings.HasSuffix(strings.ToLower(f.Name), dicomExt) {
			continue
		}

		out := u.uploadOne(ctx, f)
		if out.Succeeded {
			res.SuccessCount++
			if id := out.Store.ParentStudy; id != "" && !seen[id] {
				seen[id] = true
				res.StudyIDs = append(res.StudyIDs, id)
			}
		} else {
			res.FailureCount++
			res.FailedFiles = append(res.FailedFiles, annotateFailure(out))
		}
	}

	if len(res.StudyIDs) > 0 {
		// Only the first observed study is resolved and linked; a batch
		// spanning multiple studies still gets a single primary study.
		uid, err := u.resolveStudy(ctx, res.StudyIDs[0])
		if err != nil {
			u.logger.WarnContext(ctx, "Failed to resolve Study Instance UID",
				"studyId", res.StudyIDs[0], "error", err)
		} else {
			res.ResolvedStudyInstanceUID = uid
			if draft != nil {
				draft.StudyInstanceUID = uid
			}
			if u.viewerURL != "" {
				target := viewer.URL(u.viewerURL, uid)
				if err := u.launcher.Open(target); err != nil {
					u.logger.WarnContext(ctx, "Failed to open viewer", "url", target, "error", err)
				}
			}
		}
	}

	res.Marker, res.Summary = summarize(res)
	return res, nil
}

// uploadOne submits one file through the gateway and classifies the
// response. Success requires a 2xx status and a relayed Orthanc body whose
// Status field reports the object as stored; anything else is a failure.
func (u *Uploader) uploadOne(ctx context.Context, f File) Outcome {
	out := Outcome{FileName: f.Name}

	targetURL := u.gatewayURL + "/instances"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(f.Data))
	if err != nil {
		u.logger.ErrorContext(ctx, "Failed to create upload request", "file", f.Name, "error", err)
		return out
	}
	req.Header.Set("Content-Type", "application/dicom")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		u.logger.WarnContext(ctx, "Upload failed", "file", f.Name, "error", err)
		return out
	}
	defer resp.Body.Close()

	out.HTTPStatus = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		u.logger.WarnContext(ctx, "Failed to read upload response", "file", f.Name, "error", err)
		return out
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out
	}

	var store orthanc.StoreResult
	if err := json.Unmarshal(body, &store); err != nil || !store.Accepted() {
		return out
	}

	out.Succeeded = true
	out.Store = &store
	u.logger.DebugContext(ctx, "Uploaded DICOM file",
		"file", f.Name, "statusCode", resp.StatusCode, "parentStudy", store.ParentStudy)
	return out
}

// resolveStudy asks the gateway for the Study Instance UID behind an
// Orthanc-internal study ID.
func (u *Uploader) resolveStudy(ctx context.Context, studyID string) (string, error) {
	targetURL := fmt.Sprintf("%s/study-info/%s", u.gatewayURL, studyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create study-info request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch study-info for %s: %w", studyID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("study-info for %s returned status %d", studyID, resp.StatusCode)
	}

	var payload struct {
		StudyInstanceUID string `json:"studyInstanceUID"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode study-info response: %w", err)
	}
	if payload.StudyInstanceUID == "" {
		return "", fmt.Errorf("study-info for %s carried no Study Instance UID", studyID)
	}
	return payload.StudyInstanceUID, nil
}

func annotateFailure(out Outcome) string {
	if out.HTTPStatus != 0 {
		return fmt.Sprintf("%s (%d)", out.FileName, out.HTTPStatus)
	}
	return out.FileName + " (network error)"
}

// summarize renders the single end-of-batch status line.
func summarize(res *Result) (Marker, string) {
	var parts []string
	if res.SuccessCount > 0 {
		parts = append(parts, fmt.Sprintf("Uploaded %d file(s).", res.SuccessCount))
	}
	if res.FailureCount > 0 {
		shown := res.FailedFiles
		overflow := ""
		if len(shown) > maxFailedInSummary {
			overflow = fmt.Sprintf(" (+%d more)", len(shown)-maxFailedInSummary)
			shown = shown[:maxFailedInSummary]
		}
		parts = append(parts, fmt.Sprintf("Failed %d file(s): %s%s.",
			res.FailureCount, strings.Join(shown, ", "), overflow))
	}
	if len(res.StudyIDs) > 0 {
		parts = append(parts, "Orthanc Study IDs: "+strings.Join(res.StudyIDs, ", "))
	}

	text := strings.Join(parts, "\n")
	if text == "" {
		text = "No response from Orthanc."
	}

	var marker Marker
	switch {
	case res.FailureCount == 0 && res.SuccessCount > 0:
		marker = MarkerSuccess
	case res.SuccessCount == 0:
		marker = MarkerFailure
	default:
		marker = MarkerMixed
	}
	return marker, string(marker) + " " + text
}
