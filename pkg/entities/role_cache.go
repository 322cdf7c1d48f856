package entities

// CachedRole is one guild role as captured by the role cacher. The web panel
// reads the cache to offer role pickers without talking to Discord itself.
type CachedRole struct {
	// ID is the Discord role ID.
	ID string `json:"id" bson:"id"`

	// Name is the role display name.
	Name string `json:"name" bson:"name"`
}
