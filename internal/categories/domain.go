package categories

// Category is a playground category.
type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Image   string `json:"image,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Input carries the fields of a create or update.
type Input struct {
	Name    string `validate:"required,max=100" yaml:"name"`
	Color   string `validate:"omitempty,hexcolor" yaml:"color"`
	Deleted bool   `yaml:"deleted"`
}

// DefaultColor is used when none is chosen.
const DefaultColor = "#000000"
