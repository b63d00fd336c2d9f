package domain

// Todo is a user-added reminder derived from an event. Name, Date and
// Description are copied at add time; later edits to the source event do not
// propagate. Two todos are considered the same when both Name and Date match.
type Todo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	AddedAt     string `json:"addedAt"`
}

// Same reports whether t and other refer to the same underlying event.
func (t Todo) Same(other Todo) bool {
	return t.Name == other.Name && t.Date == other.Date
}
