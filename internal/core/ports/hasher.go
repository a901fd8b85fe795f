package ports

// Hasher computes content hashes of files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the 64-bit content hash of the file at path.
	HashFile(path string) (uint64, error)
}
