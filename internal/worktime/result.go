package worktime

// Kind classifies the outcome of a validation check.
type Kind string

const (
	KindOk               Kind = "ok"
	KindInvalidOrdering  Kind = "invalid_ordering"
	KindOverlapDetected  Kind = "overlap_detected"
	KindDailyCapExceeded Kind = "daily_cap_exceeded"
)

// Result is the outcome of a validation check. Message is empty when Kind is
// KindOk and otherwise holds user-facing text suitable for display verbatim.
type Result struct {
	Kind    Kind
	Message string
}

// Valid reports whether the check passed.
func (r Result) Valid() bool {
	return r.Kind == KindOk
}

func ok() Result {
	return Result{Kind: KindOk}
}

func fail(kind Kind, message string) Result {
	return Result{Kind: kind, Message: message}
}
