package ports

type Keyring interface {
	GetKey(keyName string) (string, error)
	SetKey(keyName string, keyValue string) error
	HasKey(keyName string) (bool, error)
	// DeleteKey removes an entry. Removing a missing entry is not an error.
	DeleteKey(keyName string) error
}
