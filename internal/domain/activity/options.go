package activity

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListActivityOptions narrows an activity listing. Nil and empty fields
// match everything.
type ListActivityOptions struct {
	ProjectID    *string
	ActorID      string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}

// withDefaults bounds the page: the limit defaults to 50, is capped at 500,
// and a negative offset counts as zero.
func (o ListActivityOptions) withDefaults() ListActivityOptions {
	switch {
	case o.Limit <= 0:
		o.Limit = defaultListLimit
	case o.Limit > maxListLimit:
		o.Limit = maxListLimit
	}
	o.Offset = max(0, o.Offset)
	return o
}
