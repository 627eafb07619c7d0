package errors

// Error code definitions. Each code maps one externally observable
// failure of the fetch workflow.
const (
	// CodeInvalidInput marks malformed task parameters, detected before
	// any network call is made.
	CodeInvalidInput = "VAL-001"

	// CodeResolutionFailed marks a failed release lookup (network,
	// not-found, rate limit); the underlying cause is preserved as the
	// wrapped error.
	CodeResolutionFailed = "NET-001"

	// CodeDownloadFailed marks a failed asset transfer request.
	CodeDownloadFailed = "NET-002"

	// CodeNoMatchingAsset marks a release with no asset matching the
	// requested name (or no assets at all).
	CodeNoMatchingAsset = "AST-001"

	// CodeUnknownFileName marks a download whose target filename could
	// not be derived from any source.
	CodeUnknownFileName = "FNM-001"

	// CodeIOFailure marks directory creation or file streaming failures.
	CodeIOFailure = "SYS-001"

	CodeConfigGeneric   = "CFG-000"
	CodeDatabaseGeneric = "DB-000"
)
