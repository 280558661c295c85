package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/plugsync/plugsync/internal/core/domain"
	"github.com/plugsync/plugsync/internal/core/ports"
	"github.com/plugsync/plugsync/internal/infrastructure/manifest"
	"github.com/plugsync/plugsync/internal/infrastructure/store"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "plugsync/1.0"
)

// UpdateChecker fetches plugin manifests, resolves them against locally
// installed plugins, and installs or removes plugin files.
//
// All state lives on the instance; independent checkers can coexist. A mutex
// serializes CheckForUpdates, Install, and Uninstall so concurrent calls
// cannot corrupt the plugins archive or race on the seen-URL set. Each
// operation is otherwise synchronous and blocking.
type UpdateChecker struct {
	client  *http.Client
	files   *store.FileStore
	archive *store.ArchiveStore
	sink    ports.NotificationSink
	notify  bool

	mu   sync.Mutex
	seen []string // manifest URLs already fetched in this process, success or failure
}

// Option configures an UpdateChecker.
type Option func(*UpdateChecker)

// WithHTTPClient replaces the default manifest-fetching client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *UpdateChecker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithNotifications controls whether update-available notifications are
// emitted. Failure notifications are always emitted.
func WithNotifications(enabled bool) Option {
	return func(c *UpdateChecker) {
		c.notify = enabled
	}
}

// New creates an update checker. A nil sink discards notifications.
func New(files *store.FileStore, archive *store.ArchiveStore, sink ports.NotificationSink, opts ...Option) *UpdateChecker {
	c := &UpdateChecker{
		client:  &http.Client{Timeout: defaultTimeout},
		files:   files,
		archive: archive,
		sink:    sink,
		notify:  true,
	}
	if c.sink == nil {
		c.sink = nopSink{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckForUpdates fetches the manifest behind each source URL and returns one
// record per discovered plugin entry, in manifest-encounter order. An entry
// matching a locally installed plugin carries that plugin's version; when
// several local entries share the name, one record is emitted per match.
//
// URLs already fetched by this checker are skipped. Fetch and parse failures
// are reported through the notification sink and do not abort the remaining
// URLs; only nil arguments produce an error.
func (c *UpdateChecker) CheckForUpdates(ctx context.Context, urls []string, locallyInstalled []domain.LocalPlugin) ([]domain.PluginRecord, error) {
	if urls == nil || locallyInstalled == nil {
		return nil, fmt.Errorf("%w: urls and locallyInstalled must be non-nil", domain.ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var records []domain.PluginRecord
	for _, sourceURL := range urls {
		manifestURL := manifest.Normalize(sourceURL)
		if c.hasSeen(manifestURL) {
			continue
		}

		entries, kind, err := c.fetchManifest(ctx, manifestURL)

		// The URL counts as seen whether or not the fetch worked, so
		// repeated checks in one run do not refetch it.
		c.seen = append(c.seen, manifestURL)

		if err != nil {
			c.reportFailure(kind, "Plugin update check failed",
				fmt.Sprintf("%s: %v", manifestURL, err))
			continue
		}

		for _, e := range entries {
			matched := false
			for _, local := range locallyInstalled {
				if local.Name == e.Name {
					records = append(records, newRecord(e, local.Version))
					matched = true
				}
			}
			if !matched {
				records = append(records, newRecord(e, ""))
			}
		}
	}

	if c.notify {
		for _, r := range records {
			if r.NeedsUpdate() {
				c.sink.Notify(domain.Notification{
					Text: fmt.Sprintf("%s %s is available (installed: %s)",
						r.Name, r.CurrentVersion, r.InstalledVersion),
					Caption:  "Plugin update available",
					Severity: domain.SeverityInfo,
				})
			}
		}
	}

	return records, nil
}

// Install downloads every file of the record into the plugins directory. With
// saveToArchive set, each downloaded file is moved into the plugins archive,
// replacing any same-named entry, and the loose copy is deleted.
//
// It returns true when at least one file was installed. Per-file failures are
// reported through the sink and do not stop the remaining files.
func (c *UpdateChecker) Install(ctx context.Context, record domain.PluginRecord, saveToArchive bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	installed := 0
	for _, fileName := range record.DownloadFiles {
		fileURL := record.DownloadURL + fileName

		path, err := c.files.Download(ctx, fileURL, fileName)
		if err != nil {
			c.reportFailure(domain.FailureNetwork, "Plugin install failed",
				fmt.Sprintf("%s: %v", fileURL, err))
			continue
		}

		if saveToArchive {
			if err := c.archive.Put(fileName, path); err != nil {
				c.reportFailure(domain.FailureFilesystem, "Plugin install failed",
					fmt.Sprintf("%s: %v", fileName, err))
				continue
			}
			if err := c.files.Remove(fileName); err != nil {
				c.reportFailure(domain.FailureFilesystem, "Plugin install failed",
					fmt.Sprintf("%s: %v", fileName, err))
				continue
			}
		}

		installed++
	}

	return installed > 0
}

// Uninstall deletes every file of the record from the plugins directory and,
// with saveToArchive set, removes the matching archive entries; the archive
// file itself is deleted once it holds no entries.
//
// The first failure is reported through the sink and makes the call return
// false; true means the whole sequence completed.
func (c *UpdateChecker) Uninstall(ctx context.Context, record domain.PluginRecord, saveToArchive bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, fileName := range record.DownloadFiles {
		if err := c.files.Remove(fileName); err != nil {
			c.reportFailure(domain.FailureFilesystem, "Plugin uninstall failed",
				fmt.Sprintf("%s: %v", fileName, err))
			return false
		}

		if saveToArchive {
			if err := c.archive.Remove(fileName); err != nil {
				c.reportFailure(domain.FailureFilesystem, "Plugin uninstall failed",
					fmt.Sprintf("%s: %v", fileName, err))
				return false
			}
		}
	}

	return true
}

// fetchManifest downloads and parses one manifest document, classifying any
// failure as network or parse.
func (c *UpdateChecker) fetchManifest(ctx context.Context, url string) ([]manifest.Entry, domain.FailureKind, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.FailureNetwork, fmt.Errorf("failed to create manifest request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.FailureNetwork, fmt.Errorf("manifest fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.FailureNetwork, fmt.Errorf("manifest fetch failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.FailureNetwork, fmt.Errorf("failed to read manifest: %w", err)
	}

	entries, err := manifest.Parse(data)
	if err != nil {
		return nil, domain.FailureParse, err
	}
	return entries, "", nil
}

func (c *UpdateChecker) hasSeen(url string) bool {
	for _, s := range c.seen {
		if s == url {
			return true
		}
	}
	return false
}

func (c *UpdateChecker) reportFailure(kind domain.FailureKind, caption, text string) {
	c.sink.Notify(domain.Notification{
		Text:     text,
		Caption:  caption,
		Severity: domain.SeverityError,
		Kind:     kind,
	})
}

// newRecord builds a record from a manifest entry and the locally installed
// version, empty when the plugin is not installed.
func newRecord(e manifest.Entry, installedVersion string) domain.PluginRecord {
	files := make([]string, len(e.Files))
	copy(files, e.Files)

	return domain.PluginRecord{
		Name:             e.Name,
		CurrentVersion:   e.Version,
		InstalledVersion: installedVersion,
		DownloadURL:      strings.TrimSuffix(e.DownloadURL, "/") + "/" + e.Version + "/",
		DownloadFiles:    files,
	}
}

// nopSink is the fallback when no sink is provided.
type nopSink struct{}

func (nopSink) Notify(domain.Notification) {}
