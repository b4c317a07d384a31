package ports

type AccessMode int

const (
	ReadWrite = iota
	ReadWriteExecute
	ReadAllWriteOwner
)

// FileSystem is the file access used by settings loading, values file checks
// and kubeconfig materialisation. Paths starting with "~" are resolved
// against the user's home directory.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte, accessMode AccessMode) error
	FileExists(path string) (bool, error)
	HomeDir() (string, error)
}
