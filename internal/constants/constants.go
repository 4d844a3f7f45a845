package constants

import "time"

// File and directory permissions.
const (
	// DownloadDirPerm is the permission for download directories.
	DownloadDirPerm = 0o750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0o600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and transport limits.
const (
	// DefaultRetryMax is the default maximum number of transport retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between transport retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Polling intervals.
const (
	// DefaultPollInterval is the delay between parsed-poll attempts.
	DefaultPollInterval = 2 * time.Second

	// DefaultJobPollTimeout bounds publish-job polling when the caller
	// supplies neither attempts nor a timeout context.
	DefaultJobPollTimeout = 10 * time.Minute
)

// Headers attached to every request.
const (
	// HeaderRequestedWith is always sent to identify SDK traffic.
	HeaderRequestedWith = "X-Requested-With"

	// RequestedWithValue is the fixed HeaderRequestedWith value.
	RequestedWithValue = "XMLHttpRequest"
)
