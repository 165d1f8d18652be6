package cache

import "testing"

func TestKeyGeneratorByName(t *testing.T) {
	const source = "https://cdn.example.com/a.svga"

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "identity", want: source},
		{name: "", want: MD5Key(source)},
		{name: "MD5", want: MD5Key(source)},
		{name: "sha256", want: SHA256Key(source)},
		{name: "crc32", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := KeyGeneratorByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fn(source); got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashKeys(t *testing.T) {
	if got := MD5Key("a"); got != "0cc175b9c0f1b6a831c399e269772661" {
		t.Errorf("MD5Key(a) = %q", got)
	}
	if got := len(SHA256Key("a")); got != 32 {
		t.Errorf("SHA256Key length = %d, want 32", got)
	}
	if MD5Key("a") == MD5Key("b") {
		t.Error("distinct sources share a key")
	}
}
