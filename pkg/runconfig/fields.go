// Field definitions and constants for ShorelineS run configurations.
package runconfig

// DefaultDateFormat is the layout run dates are rendered in before the
// configuration is handed to the engine.
const DefaultDateFormat = "2006-01-02"

// Reserved metadata keys stripped from a configuration on load.
const (
	KeyConfigVersion = "config_version"
	KeyDescription   = "description"
)

// RequiredFields lists the keys every run configuration must carry.
var RequiredFields = []string{
	"storageinterval",
}

// KnownPathFields names keys whose values are filesystem paths. They are
// informational only; no traversal validation is applied.
var KnownPathFields = map[string]bool{
	"LDBcoastline":     true,
	"LDBnourish":       true,
	"fnorfile":         true,
	"outputdir":        true,
	"coastline_file":   true,
	"nourishment_file": true,
	"output_directory": true,
}

// CellStringFields names keys whose list values are passed to the engine as
// cell arrays of strings rather than numeric arrays.
var CellStringFields = map[string]bool{
	"LDBplot": true,
}

// Units documents the physical unit of the common numeric parameters.
var Units = map[string]string{
	"d":               "meters",
	"Hso":             "meters",
	"phiw0":           "degrees",
	"dt":              "days",
	"ds0":             "meters",
	"storageinterval": "days",
}
