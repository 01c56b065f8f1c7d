package harness

// CodeOK is the outcome recorded for a step the engine accepted.
const CodeOK = "OK"

// TraceEvent is the outcome of one scenario step.
type TraceEvent struct {
	Step   int    `json:"step"`
	Op     string `json:"op"`
	Caller string `json:"caller"`
	At     string `json:"at"`
	Code   string `json:"code"`

	// Result is the JSON form of the operation's result. Nil for
	// rejected steps. Not part of golden traces.
	Result any `json:"-"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expectation and assertion failures. Empty if Pass.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step outcome.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
