package gomel

// DataSource provides the payload for units created by the local process.
type DataSource interface {
	// GetData returns the data for the next unit. It must not block.
	GetData() []byte
}
