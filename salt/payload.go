package salt

import "encoding/base64"

// keyBytes round-trips as unpadded URL-safe base64 in the salt file.
type keyBytes []byte

var encoder = base64.URLEncoding.WithPadding(base64.NoPadding)

func (k keyBytes) MarshalJSON() ([]byte, error) {
	return []byte(`"` + encoder.EncodeToString(k) + `"`), nil
}

func (k *keyBytes) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	decoded, err := encoder.DecodeString(string(data))
	if err != nil {
		return err
	}
	*k = decoded
	return nil
}

type payload struct {
	Version int      `json:"version"`
	CSRF    keyBytes `json:"csrf"`
}
