package access

// Action is the kind of access being requested on a protected object.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// Object is the contract implemented by every protected data model. The set
// of implementations is closed: Author, Subscription, Article, LikedItem.
// Authorize answers whether the requesting author may perform the action on
// this object. Read access to Author and Article content is additionally
// gated by the visibility rules, which need database state and therefore
// live in the visibility package; Authorize only captures the ownership
// rules that can be answered from the row itself.
type Object interface {
	Authorize(requesterID string, action Action) bool
}

// Allowed evaluates the object's own rule. Kept as a function so call sites
// read access.Allowed(obj, ...) instead of a bare method call on a model.
func Allowed(obj Object, requesterID string, action Action) bool {
	return obj.Authorize(requesterID, action)
}
