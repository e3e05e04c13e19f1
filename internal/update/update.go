// Package update checks whether a newer newsanchor release is published.
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const ReleasesURL = "https://api.github.com/repos/matheuskafuri/newsanchor/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

// Check asks releasesURL for the latest release tag. It returns nil when
// current is up to date or the check fails for any reason.
func Check(ctx context.Context, releasesURL, currentVersion string) *Result {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")
	if latest == "" || latest == current || current == "dev" {
		return nil
	}
	return &Result{LatestVersion: latest}
}
