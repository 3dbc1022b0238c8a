package cache

import (
	"bytes"
	"encoding/gob"
)

// Encode serializes the stored form of an entity. gob keeps every exported
// field, including ones the API hides such as User.PasswordHash.
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(data []byte, dst any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(dst)
}
