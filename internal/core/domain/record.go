package domain

// LocalPlugin identifies a plugin that is already installed locally.
type LocalPlugin struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PluginRecord is one manifest entry resolved against the local install
// state. Records are built during an update check and are read-only from the
// caller's perspective afterwards.
type PluginRecord struct {
	// Name is the plugin identifier, matched against locally installed
	// plugin names.
	Name string

	// CurrentVersion is the version advertised by the remote manifest.
	CurrentVersion string

	// InstalledVersion is the version of the locally installed plugin with a
	// matching name. Empty exactly when the plugin is not installed locally.
	InstalledVersion string

	// DownloadURL is the base URL for downloadable files, formed as
	// <manifest DownloadUrl>/<CurrentVersion>/.
	DownloadURL string

	// DownloadFiles lists the file names published for this plugin, in
	// manifest order.
	DownloadFiles []string
}

// NeedsUpdate reports whether the locally installed version differs from the
// version advertised by the manifest. A plugin that is not installed locally
// never needs an update.
func (r PluginRecord) NeedsUpdate() bool {
	return r.InstalledVersion != "" && r.InstalledVersion != r.CurrentVersion
}
