package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		fileURL string
		want    string
	}{
		{
			name:    "host-style base",
			baseURL: "https://cloudvault.storage.yandexcloud.net",
			fileURL: "https://cloudvault.storage.yandexcloud.net/user_1/1700000000000.pdf",
			want:    "user_1/1700000000000.pdf",
		},
		{
			name:    "path-style base keeps bucket out of the key",
			baseURL: "https://storage.yandexcloud.net/cloudvault",
			fileURL: "https://storage.yandexcloud.net/cloudvault/user_1/1700000000000.pdf",
			want:    "user_1/1700000000000.pdf",
		},
		{
			name:    "foreign url",
			baseURL: "https://cloudvault.storage.yandexcloud.net",
			fileURL: "https://elsewhere.example.com/user_1/file.pdf",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{publicBaseURL: tt.baseURL}
			assert.Equal(t, tt.want, c.ObjectKey(tt.fileURL))
		})
	}
}

func TestPublicURLObjectKeyRoundTrip(t *testing.T) {
	for _, base := range []string{
		"https://cloudvault.storage.yandexcloud.net",
		"https://storage.yandexcloud.net/cloudvault",
	} {
		c := &Client{publicBaseURL: base}
		key := "org_7/1700000000000.png"
		assert.Equal(t, key, c.ObjectKey(c.PublicURL(key)))
	}
}
