package diag

// Severity ranks how much a finding should worry the caller. The order
// matters: Bag.HasErrors and the CLI exit code compare against SevError.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the uppercase tag used in pretty and JSON output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
