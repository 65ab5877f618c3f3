// Package registry holds the static catalog of cloud-storage providers the
// vault can aggregate.
package registry

// GiB is the number of bytes in one gibibyte.
const GiB int64 = 1 << 30

// Provider describes a supported cloud-storage service.
type Provider struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
	QuotaBytes  int64  `json:"quotaBytes"`
	ColorTag    string `json:"colorTag"`
	SignupURL   string `json:"signupUrl"`
}

// catalog is ordered for presentation.
var catalog = []Provider{
	{
		ID:          "google-drive",
		DisplayName: "Google Drive",
		Icon:        "cloud",
		QuotaBytes:  15 * GiB,
		ColorTag:    "#0077C2",
		SignupURL:   "https://www.google.com/drive/",
	},
	{
		ID:          "dropbox",
		DisplayName: "Dropbox",
		Icon:        "archive",
		QuotaBytes:  2 * GiB,
		ColorTag:    "#0061FF",
		SignupURL:   "https://www.dropbox.com",
	},
	{
		ID:          "mega",
		DisplayName: "Mega",
		Icon:        "database",
		QuotaBytes:  50 * GiB,
		ColorTag:    "#D9272E",
		SignupURL:   "https://mega.nz",
	},
	{
		ID:          "onedrive",
		DisplayName: "OneDrive",
		Icon:        "hard-drive",
		QuotaBytes:  5 * GiB,
		ColorTag:    "#0078D4",
		SignupURL:   "https://onedrive.live.com",
	},
	{
		ID:          "pcloud",
		DisplayName: "pCloud",
		Icon:        "cloud",
		QuotaBytes:  10 * GiB,
		ColorTag:    "#4CB3FF",
		SignupURL:   "https://www.pcloud.com",
	},
}

// List returns a copy of the catalog in presentation order.
func List() []Provider {
	out := make([]Provider, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (Provider, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}
