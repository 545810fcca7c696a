package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeEnvelope(t *testing.T) {
	want := &EncryptedData{
		EncryptedDataKey: []byte("encrypted-data-key-blob"),
		EncryptedData:    []byte("iv-and-ciphertext"),
	}

	data, err := SerializeEncryptedData(want)
	require.NoError(t, err)

	got, err := DeserializeEncryptedData(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeserializeRejectsMalformedData(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		_, err := DeserializeEncryptedData([]byte{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("truncated payload", func(t *testing.T) {
		data, err := SerializeEncryptedData(&EncryptedData{
			EncryptedDataKey: []byte("key"),
			EncryptedData:    []byte("payload"),
		})
		require.NoError(t, err)
		_, err = DeserializeEncryptedData(data[:len(data)-3])
		assert.Error(t, err)
	})
}
