package grounds

// Owner is the manager responsible for a ground.
type Owner struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Playground is a bookable ground as listed by the backend.
type Playground struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Manager *Owner `json:"manager,omitempty"`
}

// ManagerName is the owner's full name, or "".
func (p Playground) ManagerName() string {
	if p.Manager == nil {
		return ""
	}
	return p.Manager.FirstName + " " + p.Manager.LastName
}

// SearchResult is a search hit annotated with its popular flag.
type SearchResult struct {
	Playground
	Popular bool `json:"popular"`
}
