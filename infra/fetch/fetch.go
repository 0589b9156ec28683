// Package fetch downloads the NHTSA Standing General Order incident
// CSVs that feed the analysis. NHTSA refreshes them monthly.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/logger"
)

// DefaultBaseURL is NHTSA's static host for SGO data.
const DefaultBaseURL = "https://static.nhtsa.gov/odi/ffdd/sgo-2021-01"

const userAgent = "Mozilla/5.0 (compatible; robotaxi-safety-tracker/1.0)"

// File is one downloadable artifact.
type File struct {
	Name        string
	URL         string
	Dest        string
	Description string
}

// Downloader fetches the SGO data set into a local directory.
type Downloader struct {
	client  *http.Client
	baseURL string
	log     logger.Logger
}

// New builds a Downloader. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, log logger.Logger) *Downloader {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Downloader{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: baseURL,
		log:     log,
	}
}

// Files lists the current and archive SGO exports. Archive files hold
// 2021 through June 2025; current files hold everything after.
func (d *Downloader) Files() []File {
	return []File{
		{
			Name:        "ADS",
			URL:         d.baseURL + "/SGO-2021-01_Incident_Reports_ADS.csv",
			Dest:        "SGO-2021-01_Incident_Reports_ADS.csv",
			Description: "Automated Driving Systems (L3-L5) incidents",
		},
		{
			Name:        "ADAS",
			URL:         d.baseURL + "/SGO-2021-01_Incident_Reports_ADAS.csv",
			Dest:        "SGO-2021-01_Incident_Reports_ADAS.csv",
			Description: "Level 2 ADAS (FSD, Autopilot) incidents",
		},
		{
			Name:        "ADS_ARCHIVE",
			URL:         d.baseURL + "/Archive-2021-2025/SGO-2021-01_Incident_Reports_ADS.csv",
			Dest:        filepath.Join("archive", "SGO-2021-01_Incident_Reports_ADS_archive.csv"),
			Description: "Historical ADS incidents (2021 - June 2025)",
		},
		{
			Name:        "ADAS_ARCHIVE",
			URL:         d.baseURL + "/Archive-2021-2025/SGO-2021-01_Incident_Reports_ADAS.csv",
			Dest:        filepath.Join("archive", "SGO-2021-01_Incident_Reports_ADAS_archive.csv"),
			Description: "Historical ADAS incidents (2021 - June 2025)",
		},
	}
}

// FetchAll downloads every file into dir, continuing past individual
// failures. It returns the success count and total.
func (d *Downloader) FetchAll(ctx context.Context, dir string) (ok, total int) {
	files := d.Files()
	for _, f := range files {
		dest := filepath.Join(dir, f.Dest)
		if err := d.fetchOne(ctx, f.URL, dest); err != nil {
			d.log.Errorf("download %s: %v", f.Name, err)
			continue
		}
		d.log.Infof("downloaded %s (%s)", f.Name, f.Description)
		ok++
	}
	return ok, len(files)
}

// fetchOne writes the body to a temp file first so an interrupted
// download never truncates an existing data file.
func (d *Downloader) fetchOne(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
