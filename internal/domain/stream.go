package domain

// StreamKind names one of the standing live queries a client can hold
// against its own records.
type StreamKind string

const (
	StreamOngoing   StreamKind = "ongoing"
	StreamCompleted StreamKind = "completed"
	StreamHistory   StreamKind = "history"
)

func ParseStreamKind(s string) (StreamKind, bool) {
	switch StreamKind(s) {
	case StreamOngoing, StreamCompleted, StreamHistory:
		return StreamKind(s), true
	}
	return "", false
}

// TaskSnapshot is one full delivery on a task stream: the complete current
// set of matching tasks, not a diff.
type TaskSnapshot struct {
	Kind  StreamKind `json:"kind"`
	Tasks []Task     `json:"tasks"`
}

// HistorySnapshot is one full delivery on the history stream, newest first.
type HistorySnapshot struct {
	Kind   StreamKind      `json:"kind"`
	Events []HistoryRecord `json:"events"`
}
