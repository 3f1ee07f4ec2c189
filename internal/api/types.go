package api

// Resource holds the fields every API Colombia record shares. Payloads are
// otherwise opaque; decode into your own types when more is needed.
type Resource struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Resources decodes a list payload into Resource values.
func (e Envelope) Resources() ([]Resource, error) {
	var items []Resource
	if err := e.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}
