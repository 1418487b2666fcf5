package s3storage

import "testing"

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name     string
		client   Client
		key      string
		expected string
	}{
		{
			name:     "default bucket domain with https",
			client:   Client{bucket: "coze-archive", endpoint: "oss-cn-beijing.aliyuncs.com", useSSL: true},
			key:      "sably/开心/1.gif",
			expected: "https://coze-archive.oss-cn-beijing.aliyuncs.com/sably/开心/1.gif",
		},
		{
			name:     "default bucket domain with http",
			client:   Client{bucket: "b", endpoint: "s3.local", useSSL: false},
			key:      "sably/a.png",
			expected: "http://b.s3.local/sably/a.png",
		},
		{
			name:     "custom domain",
			client:   Client{bucket: "b", endpoint: "s3.local", useSSL: true, customDomain: "cdn.example.com"},
			key:      "sably/a.png",
			expected: "https://cdn.example.com/sably/a.png",
		},
		{
			name:     "custom domain with trailing slash",
			client:   Client{bucket: "b", endpoint: "s3.local", useSSL: true, customDomain: "cdn.example.com/"},
			key:      "sably/a.png",
			expected: "https://cdn.example.com/sably/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.PublicURL(tt.key); got != tt.expected {
				t.Errorf("PublicURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}
