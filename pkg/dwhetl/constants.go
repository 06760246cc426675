package dwhetl

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Every statement succeeded
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration, parameters or storage locations
	ExitConnectionError = 11 // Failed to connect to the warehouse
	ExitApprovalDenied  = 12 // User denied schema reset approval
	ExitExecutionFailed = 13 // One or more statements failed
)

const (
	// DefaultPort is the port Amazon Redshift clusters listen on unless configured otherwise.
	DefaultPort = 5439

	// DefaultRegion is used for COPY and storage preflight when no region is configured.
	DefaultRegion = "us-west-2"

	// DefaultAppName is reported to the warehouse as application_name.
	DefaultAppName = "dwhetl"

	// MaxErrorPreviewLength is the maximum number of characters of SQL shown
	// alongside a failed statement in verbose output.
	MaxErrorPreviewLength = 200
)
