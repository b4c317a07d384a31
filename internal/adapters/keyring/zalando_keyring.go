package keyring

import (
	"errors"

	"helmtest/internal/ports"

	"github.com/zalando/go-keyring"
)

// serviceName groups all helmtest entries in the OS credential store.
const serviceName = "helmtest"

type ZalandoKeyring struct{}

func ProvideZalandoKeyring() ports.Keyring {
	return ZalandoKeyring{}
}

func (z ZalandoKeyring) GetKey(keyName string) (string, error) {
	return keyring.Get(serviceName, keyName)
}

func (z ZalandoKeyring) SetKey(keyName string, keyValue string) error {
	return keyring.Set(serviceName, keyName, keyValue)
}

func (z ZalandoKeyring) HasKey(keyName string) (bool, error) {
	_, err := keyring.Get(serviceName, keyName)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (z ZalandoKeyring) DeleteKey(keyName string) error {
	if err := keyring.Delete(serviceName, keyName); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
