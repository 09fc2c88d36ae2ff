package params

// DefaultSourcePath is the trace dataset the API reads when nothing else is configured.
var DefaultSourcePath = "data/geo_locations_astana_hackathon"

// DefaultChunkSize is the number of source rows in one batch.
var DefaultChunkSize = 10_000

// ConfigFileName is looked up in the user's home directory (without extension; viper picks the format).
const ConfigFileName = ".drivesafe"

// EnvPrefix prefixes environment variables bound to configuration keys, eg. DRIVESAFE_SOURCE.
const EnvPrefix = "DRIVESAFE"
