package models

// Document is the whole persisted state: the post queue, the used-image
// ledger and the display settings. It is always read and written as a unit.
type Document struct {
	Posts      []*Post  `json:"posts"`
	UsedImages []string `json:"usedImages"`
	Settings   Settings `json:"settings"`
}

func NewDocument() *Document {
	return &Document{
		Posts:      []*Post{},
		UsedImages: []string{},
		Settings:   DefaultSettings(),
	}
}

// MarkImageUsed appends name to the used-image ledger unless it is already
// present. The ledger is append-only set semantics; entries are never removed.
func (d *Document) MarkImageUsed(name string) {
	if name == "" {
		return
	}
	for _, used := range d.UsedImages {
		if used == name {
			return
		}
	}
	d.UsedImages = append(d.UsedImages, name)
}
