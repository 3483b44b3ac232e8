package entity

// Lifecycle is the soft-delete state shared by users and their profiles.
// Active -> Inactive is the only transition; there is no reactivation.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleInactive Lifecycle = "inactive"
)

func (l Lifecycle) IsActive() bool {
	return l == LifecycleActive
}
