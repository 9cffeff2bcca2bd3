package loadtest

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	progressEvery           = 500
)

// Verification constants.
const (
	PercentageMultiplier = 100
	sampleInterval       = 2
	relativeTolerance    = 1e-9
)
