package models

// Roster is the fixed, ordered list of employees eligible to acknowledge.
type Roster []string

// Contains reports whether name is on the roster.
func (r Roster) Contains(name string) bool {
	for _, employee := range r {
		if employee == name {
			return true
		}
	}
	return false
}

// Pending lists roster members who have not acknowledged ann, in roster order.
func (r Roster) Pending(ann Announcement) []string {
	pending := make([]string, 0, len(r))
	for _, employee := range r {
		if !ann.HasAcknowledged(employee) {
			pending = append(pending, employee)
		}
	}
	return pending
}
