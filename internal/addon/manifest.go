package addon

// Manifest describes the addon to clients. It is served unchanged for the
// lifetime of the process, except for behaviorHints.configurationRequired,
// which reflects whether process-wide credentials are available.
type Manifest struct {
	ID          string        `json:"id"`
	Version     string        `json:"version"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Resources   []string      `json:"resources"`
	Types       []string      `json:"types"`
	IDPrefixes  []string      `json:"idPrefixes"`
	Catalogs    []interface{} `json:"catalogs"`
	Behavior    BehaviorHints `json:"behaviorHints"`
}

// BehaviorHints signals client-facing capabilities.
type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired"`
}

// Version is the addon version reported in the manifest.
const Version = "1.2.0"

// NewManifest builds the addon manifest. configured indicates whether the
// process holds default credentials; when false, clients are told that
// per-user configuration is required before requests can succeed.
func NewManifest(configured bool) Manifest {
	return Manifest{
		ID:          "org.episcope.ratings",
		Version:     Version,
		Name:        "Episcope",
		Description: "Series metadata with per-episode IMDb ratings",
		Resources:   []string{"meta"},
		Types:       []string{"series"},
		IDPrefixes:  []string{"tt"},
		Catalogs:    []interface{}{},
		Behavior: BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: !configured,
		},
	}
}
