package loadtest

import "time"

// Config holds configuration for a load test run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumLocalities int           // Number of localities to generate
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	BaseYear      int           // Year of the first census count; 0 reads it from /stats
	Horizons      []int         // Projection offsets; empty reads them from /stats
	ExportSheet   string        // Workbook sheet name; empty reads it from /stats
	Reset         bool          // Clear the store before submitting
	SkipExport    bool          // Skip the workbook download check
	OutputFile    string        // Output file for generated census data
	Verbose       bool          // Enable verbose logging
}

// Census is one generated locality with its three counts.
type Census struct {
	Locality    string     `json:"nom_ville"`
	Populations [3]float64 `json:"populations"`
}

// Record mirrors a projection record returned by the API.
type Record struct {
	Coefficients struct {
		A float64 `json:"a"`
		B float64 `json:"b"`
		C float64 `json:"c"`
	} `json:"coefficients"`
	Projections map[int]float64 `json:"projections"`
}

// serviceSettings is the subset of /stats the verifier depends on.
type serviceSettings struct {
	BaseYear    int    `json:"baseYear"`
	Horizons    []int  `json:"horizons"`
	ExportSheet string `json:"exportSheet"`
}

// Stats holds run statistics.
type Stats struct {
	LocalitiesGenerated int
	Submitted           int
	Successful          int
	Rejected            int
	Failed              int
	Verified            int
	Mismatched          int
	ExportBytes         int
	ExportRows          int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
